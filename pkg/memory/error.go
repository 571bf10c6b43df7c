package memory

import "errors"

// ErrGroupExists is returned by Driver.CreateGroup when the group graph is
// already present. Gateway.EnsureGroup treats it as success.
var ErrGroupExists = errors.New("group already exists")
