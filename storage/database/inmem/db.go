package inmemdb

import (
	"sync"

	"github.com/sakshiyadav/vidya/core/fee"
	"github.com/sakshiyadav/vidya/core/user"
)

type (
	// DB is the in-memory store used by the mock deployment and the tests.
	DB struct {
		fee     *feeTable
		user    *userTable
		profile *profileTable
	}

	feeTable struct {
		sync.RWMutex
		table map[string]*fee.Fee
		order []string // insertion order, for stable scans
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	profileTable struct {
		sync.RWMutex
		table map[string]string // user id -> role
	}
)

func Open() (*DB, error) {
	return &DB{
		fee:     &feeTable{table: make(map[string]*fee.Fee)},
		user:    &userTable{table: make(map[string]*user.User)},
		profile: &profileTable{table: make(map[string]string)},
	}, nil
}
