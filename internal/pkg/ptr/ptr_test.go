//go:build unit

package ptr_test

import (
	"testing"

	"parq-core/internal/pkg/ptr"

	"github.com/stretchr/testify/assert"
)

func TestDeref(t *testing.T) {
	assert.Equal(t, "", ptr.Deref((*string)(nil), ""))
	assert.Equal(t, "none", ptr.Deref((*string)(nil), "none"))
	assert.Equal(t, "PENDING_TIMEOUT", ptr.Deref(ptr.String("PENDING_TIMEOUT"), ""))
	assert.Nil(t, ptr.StringOrNil(""))
	assert.Equal(t, 3, *ptr.Of(3))
}
