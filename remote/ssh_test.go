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

func TestSSHRemoteExec(t *testing.T) {
	const command = "source /etc/profile; rustup default stable; cd ~/remote-builds/x/; RUST_BACKTRACE=1 cargo build"

	tests := []struct {
		name     string
		opts     remote.ExecOptions
		resp     systest.Response
		wantArgs []string
		wantCode int
		wantErr  bool
	}{
		{
			name:     "pty",
			opts:     remote.ExecOptions{PTY: true},
			wantArgs: []string{"-t", "builder@10.0.0.5", command},
		},
		{
			name:     "no pty",
			wantArgs: []string{"builder@10.0.0.5", command},
		},
		{
			name:     "remote build failure",
			opts:     remote.ExecOptions{PTY: true},
			resp:     systest.Response{Code: 101},
			wantArgs: []string{"-t", "builder@10.0.0.5", command},
			wantCode: 101,
		},
		{
			name:     "ssh cannot start",
			opts:     remote.ExecOptions{PTY: true},
			resp:     systest.Response{Code: -1, Err: errors.New("executable file not found")},
			wantArgs: []string{"-t", "builder@10.0.0.5", command},
			wantCode: -1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := systest.NewRecorder().On("ssh", tt.resp)

			code, err := remote.NewSSH(rec).RemoteExec(context.Background(), "builder@10.0.0.5", command, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCode, code)

			calls := rec.CallsTo("ssh")
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantArgs, calls[0].Args)
			assert.Nil(t, calls[0].Stdin)
			assert.Nil(t, calls[0].Stdout)
		})
	}
}
