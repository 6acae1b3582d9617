package store

import (
	"testing"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/stretchr/testify/assert"
)

// Wiring checks: the durable store takes the client the odm provider hands
// out, and satisfies the Store interface.
var (
	_ Store                  = (*MongoStore)(nil)
	_ func() odm.MongoClient = odm.ProvideMongoClient
)

func TestNewMongoStore(t *testing.T) {
	var client odm.MongoClient
	s := NewMongoStore(client, "idel")
	assert.Equal(t, "idel", s.tenant)
}
