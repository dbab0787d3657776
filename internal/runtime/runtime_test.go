package runtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageTag(t *testing.T) {
	tag := imageTag("/some/archive.tar")

	assert.True(t, strings.HasPrefix(tag, "import/"), tag)
	assert.True(t, strings.HasSuffix(tag, ":latest"), tag)
	assert.Equal(t, tag, imageTag("/some/archive.tar"))
	assert.NotEqual(t, tag, imageTag("/other/archive.tar"))
}

func TestDefaultPlatform(t *testing.T) {
	parts := strings.Split(DefaultPlatform(), "/")
	require.Len(t, parts, 2)
	assert.Equal(t, "linux", parts[0])
	assert.NotEmpty(t, parts[1])
}

func TestMounts(t *testing.T) {
	rw := BindMount("/host/ws", "/workspace")
	assert.Equal(t, "bind", rw.Type)
	assert.Equal(t, "/host/ws", rw.Source)
	assert.Equal(t, "/workspace", rw.Destination)
	assert.Equal(t, []string{"rbind", "rw"}, rw.Options)

	ro := ReadOnlyMount("/usr/local/go", "/usr/local/go")
	assert.Equal(t, "/usr/local/go", ro.Destination)
	assert.Equal(t, []string{"rbind", "ro"}, ro.Options)
}
