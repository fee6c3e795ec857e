package utils

import "fmt"

const (
	CANNOT_CONNECT_TO_MONGODB = iota + 1
	CANNOT_FIND_DEALS_IN_MONGODB
	CANNOT_FIND_DEAL_IN_MONGODB
	CANNOT_UPDATE_DEAL_IN_MONGODB
	CANNOT_FIND_BROKERS_IN_MONGODB
	CANNOT_INSERT_BROKER_TO_MONGODB
	CANNOT_UPDATE_BROKER_IN_MONGODB
	CANNOT_FIND_SYNC_LOGS_IN_MONGODB
	CANNOT_FIND_ORGANIZATIONS_IN_MONGODB
	CANNOT_INSERT_ORGANIZATION_TO_MONGODB
	CANNOT_UPDATE_ORGANIZATION_IN_MONGODB
	CANNOT_DELETE_ORGANIZATION_IN_MONGODB
	CANNOT_FIND_USERS_IN_MONGODB
	CANNOT_INSERT_USER_TO_MONGODB
	CANNOT_UPDATE_USER_IN_MONGODB
	CANNOT_DELETE_USER_IN_MONGODB
	CANNOT_FIND_ACTIVITY_LOGS_IN_MONGODB
	CANNOT_COMPUTE_DASHBOARD_STATS
	CANNOT_CONNECT_TO_MYSQL
	CANNOT_IMPORT_LEGACY_DEALS
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("Ocorreu um erro interno no servidor. Por favor, tente novamente mais tarde (Cod: %d)", internalErrorCode)
}
