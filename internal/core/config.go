package core

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	GetAPIKey() string
	GetBaseURL() string
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
