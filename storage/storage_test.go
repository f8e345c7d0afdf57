package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("../../etc/My Burger (1).PNG")
	assert.True(t, strings.HasSuffix(name, "_My_Burger__1_.png"), name)
	assert.NotContains(t, name, "/")
	assert.NotEqual(t, name, ObjectName("../../etc/My Burger (1).PNG"))
}

func TestLocalSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l := &Local{Dir: dir, BaseURL: "http://cdn.test/"}

	url, err := l.Save(context.Background(), "abc_pizza.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/uploads/abc_pizza.jpg", url)

	raw, err := os.ReadFile(filepath.Join(dir, "abc_pizza.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(raw))
}
