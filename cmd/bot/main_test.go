package main

import (
	"bytes"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliseohh/stickershotbot/internal/secrets"
	"github.com/eliseohh/stickershotbot/internal/token"
)

func TestRootCmd_NoTokenPrintsInstructions(t *testing.T) {
	for _, k := range []string{token.EnvPrimary, token.EnvAlias, secrets.EnvAgeKey, secrets.EnvAgeKeyFile} {
		t.Setenv(k, "")
	}
	t.Setenv("BOT_LOG_LEVEL", "fatal")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--workdir", t.TempDir()})

	err := cmd.Execute()
	require.ErrorIs(t, err, token.ErrNotFound)

	assert.Contains(t, out.String(), "ТОКЕН БОТА НЕ НАСТРОЕН")
	assert.Contains(t, out.String(), "TSSLG=")
}

func TestRootCmd_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("BOT_IMAGE", "env.png")

	cmd := newRootCmd(&bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--image", "flag.png", "--poll-timeout", "3s"}))

	img, err := cmd.Flags().GetString("image")
	require.NoError(t, err)
	assert.Equal(t, "flag.png", img)

	timeout, err := cmd.Flags().GetDuration("poll-timeout")
	require.NoError(t, err)
	assert.Equal(t, "3s", timeout.String())
}

// TestExit_NoTokenStatusOne re-runs the test binary as the real process so
// the os.Exit path in main is observed from outside.
func TestExit_NoTokenStatusOne(t *testing.T) {
	if os.Getenv("STICKERSHOT_EXIT_CHILD") == "1" {
		os.Args = []string{"stickershot-bot", "--workdir", os.Getenv("STICKERSHOT_EXIT_DIR")}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExit_NoTokenStatusOne$")
	cmd.Env = append(os.Environ(),
		"STICKERSHOT_EXIT_CHILD=1",
		"STICKERSHOT_EXIT_DIR="+t.TempDir(),
		"TSSLG=",
		"TELEGRAM_BOT_TOKEN=",
		"TSSLG_AGE_KEY=",
		"TSSLG_AGE_KEY_FILE=",
		"BOT_LOG_LEVEL=fatal",
	)

	out, err := cmd.Output()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "ТОКЕН БОТА НЕ НАСТРОЕН")
}
