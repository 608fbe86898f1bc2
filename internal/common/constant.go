package common

// CredentialStorageKey is the durable key/value slot holding the raw credential.
const CredentialStorageKey = "token"

// RequestIDHeaderName carries a per-request correlation id to the backend.
const RequestIDHeaderName = "X-Request-ID"
