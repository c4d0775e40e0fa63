package id

import (
	"strconv"

	"github.com/gofrs/uuid"
)

// Namespace namespace of derived account addresses
var Namespace = uuid.Must(uuid.FromString("6ba7b812-9dad-11d1-80b4-00c04fd430c8"))

// AccountAddress address of the n-th container deployed by factory,
// stable across runs
func AccountAddress(factory string, n int) string {
	return uuid.NewV5(Namespace, factory+":"+strconv.Itoa(n)).String()
}
