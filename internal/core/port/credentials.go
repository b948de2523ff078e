package port

type Credentials interface {
	// ChatAPIKey returns the chat provider credential, or a configuration error when it is not set.
	ChatAPIKey() (string, error)
	// ImageAPIToken returns the image provider credential, or a configuration error when it is not set.
	ImageAPIToken() (string, error)
}
