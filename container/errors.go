// SPDX-License-Identifier: Apache-2.0

package container

import "errors"

// ErrKeyAlreadyExists is returned by TryInsert when the key is already
// present. It is the only failure the containers report as an error;
// everything else is a contract violation and panics.
var ErrKeyAlreadyExists = errors.New("container: key already exists")
