package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
)

// repoManager holds the badgerhold store backing the local memoless history.
type repoManager struct {
	store *badgerhold.Store

	registrationRepo ports.RegistrationRepository
	depositRepo      ports.DepositRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// An empty dbDir opens an in-memory store, used by tests and by hosts that
// opt out of history persistence.
func NewRepoManager(dbDir string, logger badger.Logger) (ports.RepoManager, error) {
	db, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	return &repoManager{
		store:            db,
		registrationRepo: newRegistrationRepositoryImpl(db),
		depositRepo:      newDepositRepositoryImpl(db),
	}, nil
}

func (d *repoManager) RegistrationRepository() ports.RegistrationRepository {
	return d.registrationRepo
}

func (d *repoManager) DepositRepository() ports.DepositRepository {
	return d.depositRepo
}

func (d *repoManager) Close() {
	d.store.Close()
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.InMemory = isInMemory

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
