package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/storage"
	"github.com/mmunhall/dice-sack/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return New() },
	})
}
