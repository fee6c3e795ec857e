package database

import (
	"api/utils"
	"os"
	"time"
)

const (
	MONGO_TIMEOUT            = 20 * time.Second
	COLLECTION_ORGANIZATIONS = "organizations"
	COLLECTION_USERS         = "users"
	COLLECTION_BROKERS       = "brokers"
	COLLECTION_DEALS         = "deals"
	COLLECTION_ACTIVITY_LOGS = "activity_logs"
	COLLECTION_SYNC_LOGS     = "sync_logs"
)

func GetDB() string {
	environment := os.Getenv(utils.ENV)

	if environment == utils.ENV_RELEASE {
		return "production"
	}

	if environment == utils.ENV_HOMOLOG {
		return "homolog"
	}

	if environment == utils.ENV_DEVELOPMENT {
		return "development"
	}

	panic("[MongoDB] Invalid DB name")
}
