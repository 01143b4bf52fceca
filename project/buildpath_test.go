package project_test

import (
	"regexp"
	"testing"

	"github.com/cowdogmoo/cargo-remote/project"
	"github.com/stretchr/testify/assert"
)

var buildPathPattern = regexp.MustCompile(`^~/remote-builds/[0-9a-f]{16}/$`)

func TestBuildPath(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		for _, root := range []string{"", "/", "/work/app", "/home/dev/src/very/deep/project tree"} {
			assert.Regexp(t, buildPathPattern, project.BuildPath(root), root)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, project.BuildPath("/work/app"), project.BuildPath("/work/app"))
	})

	t.Run("distinct roots", func(t *testing.T) {
		assert.NotEqual(t, project.BuildPath("/work/app"), project.BuildPath("/work/app2"))
		assert.NotEqual(t, project.BuildPath("/work/app"), project.BuildPath("/work/app/"))
	})

	t.Run("pinned hash", func(t *testing.T) {
		// xxHash64 of the empty string with seed 0.
		assert.Equal(t, "~/remote-builds/ef46db3751d8e999/", project.BuildPath(""))
	})
}
