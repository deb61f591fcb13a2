package inmemorystore

import (
	"testing"

	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/seqstore/seqstoretest"
)

func TestStore(t *testing.T) {
	seqstoretest.Run(t, func(t *testing.T) seqstore.Store { return New() })
}
