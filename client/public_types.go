package client

import (
	"github.com/drydotai/dry-go/client/internal/types"
)

// Credential is the long-lived bearer credential produced by the login
// handshake. It is cached on disk (see WithCredentialFile) so subsequent
// clients skip the handshake.
type Credential = types.Credential
