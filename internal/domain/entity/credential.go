package entity

// Credential is the account recovered from an encrypted key
type Credential struct {
	Address    string
	PrivateKey []byte
	WIF        string
}

// LoginAction is dispatched once a key has been decrypted
type LoginAction struct {
	SessionID  string
	Credential Credential
}
