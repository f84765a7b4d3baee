package domain

// PlaceholderAPIKey is the value shipped in the sample .env file.
const PlaceholderAPIKey = "your_api_key_here"

type APICredentials struct {
	APIKey string
	APIURL string
}

func (c APICredentials) HasKey() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

func (c APICredentials) HasURL() bool {
	return c.APIURL != ""
}
