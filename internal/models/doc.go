// Package models lists the models available to the configured API keys,
// so users can pick generation and speech models that actually exist for
// their account.
package models
