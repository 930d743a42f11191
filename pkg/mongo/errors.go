package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrInvalidSessionData     = errors.New("mongo: stored session cannot be decoded")
	ErrFailedToCreateIndexes  = errors.New("mongo: failed to create session indexes")
)
