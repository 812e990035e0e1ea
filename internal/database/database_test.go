package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnectMongo_InvalidURI(t *testing.T) {
	db, err := ConnectMongo(context.Background(), MongoConfig{
		URI:      "not-a-mongodb-uri",
		Database: "secretgate",
	})
	assert.Error(t, err)
	assert.Nil(t, db)
}
