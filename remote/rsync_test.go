package remote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cowdogmoo/cargo-remote/remote"
	"github.com/cowdogmoo/cargo-remote/sys/systest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modernRsync = "rsync  version 3.2.7  protocol version 31\nCopyright (C) 1996-2022 by Andrew Tridgell, Wayne Davison, and others.\n"

func TestParseRsyncVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "gnu rsync", output: modernRsync, want: "3.2.7"},
		{name: "old macOS rsync", output: "rsync  version 2.6.9  protocol version 29\n", want: "2.6.9"},
		{name: "openrsync", output: "openrsync: protocol version 29\nrsync version 2.6.9 compatible\n", want: "2.6.9"},
		{name: "garbage", output: "command not found", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := remote.ParseRsyncVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestUploadOptions(t *testing.T) {
	opts := remote.UploadOptions(false, []string{"docs"})
	assert.True(t, opts.Delete)
	assert.Equal(t, []string{"target", ".*", "docs"}, opts.Exclude)
	assert.Equal(t, remote.CreateBuildRoot, opts.RsyncPath)

	opts = remote.UploadOptions(true, nil)
	assert.Equal(t, []string{"target"}, opts.Exclude)
}

func TestRsyncTransfer(t *testing.T) {
	t.Run("upload with modern rsync", func(t *testing.T) {
		rec := systest.NewRecorder().On("rsync", systest.Response{Stdout: modernRsync})
		rsync := remote.NewRsync(rec)

		code, err := rsync.Transfer(context.Background(), "/work/app/", "builder:~/remote-builds/x/", remote.UploadOptions(false, nil))
		require.NoError(t, err)
		assert.Equal(t, 0, code)

		calls := rec.CallsTo("rsync")
		require.Len(t, calls, 2)
		assert.Equal(t, []string{"--version"}, calls[0].Args)
		assert.Equal(t, []string{
			"-a", "--delete", "--compress", "--info=progress2",
			"--exclude", "target", "--exclude", ".*",
			"--rsync-path", "mkdir -p remote-builds && rsync",
			"/work/app/", "builder:~/remote-builds/x/",
		}, calls[1].Args)
		assert.Nil(t, calls[1].Stdout, "transfer progress goes to the terminal")
	})

	t.Run("lockfile pull with old rsync", func(t *testing.T) {
		rec := systest.NewRecorder().On("rsync", systest.Response{Stdout: "rsync  version 2.6.9  protocol version 29\n"})
		rsync := remote.NewRsync(rec)

		_, err := rsync.Transfer(context.Background(), "builder:~/remote-builds/x/Cargo.lock", "/work/app/Cargo.lock", remote.TransferOptions{})
		require.NoError(t, err)

		calls := rec.CallsTo("rsync")
		require.Len(t, calls, 2)
		assert.Equal(t, []string{
			"-a", "--compress", "--progress",
			"builder:~/remote-builds/x/Cargo.lock", "/work/app/Cargo.lock",
		}, calls[1].Args)
	})

	t.Run("version probed once", func(t *testing.T) {
		rec := systest.NewRecorder().On("rsync", systest.Response{Stdout: modernRsync})
		rsync := remote.NewRsync(rec)

		for n := 0; n < 3; n++ {
			_, err := rsync.Transfer(context.Background(), "a", "b", remote.TransferOptions{Delete: true})
			require.NoError(t, err)
		}
		assert.Len(t, rec.CallsTo("rsync"), 4)
	})

	t.Run("probe failure falls back to --progress", func(t *testing.T) {
		rec := systest.NewRecorder().On("rsync", systest.Response{Code: 1})
		rsync := remote.NewRsync(rec)

		_, err := rsync.Transfer(context.Background(), "a", "b", remote.TransferOptions{})
		require.NoError(t, err)
		assert.Contains(t, rec.CallsTo("rsync")[1].Args, "--progress")
	})

	t.Run("exit status is reported", func(t *testing.T) {
		rec := systest.NewRecorder().
			On("rsync", systest.Response{Stdout: modernRsync}).
			On("rsync", systest.Response{Code: 23})
		rsync := remote.NewRsync(rec)

		code, err := rsync.Transfer(context.Background(), "a", "b", remote.TransferOptions{})
		require.NoError(t, err)
		assert.Equal(t, 23, code)
	})

	t.Run("start failure", func(t *testing.T) {
		startErr := errors.New(`exec: "rsync": executable file not found in $PATH`)
		rec := systest.NewRecorder().
			On("rsync", systest.Response{Code: -1, Err: startErr}).
			On("rsync", systest.Response{Code: -1, Err: startErr})
		rsync := remote.NewRsync(rec)

		code, err := rsync.Transfer(context.Background(), "a", "b", remote.TransferOptions{})
		assert.ErrorIs(t, err, startErr)
		assert.Equal(t, -1, code)
	})
}
