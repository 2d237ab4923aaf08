package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: ":9000"
  log_level: pro
  hook_secret: sekrit
bots:
  - chevah-robot
default-reviewers:
  chevah/server:
    - adiroiban
  chevah/:
    - org-reviewer
skip: "chevah/playground, chevah/server#99"
scoreboard:
  trac_db: /srv/trac/trac.db
  aliases: /srv/trac/aliases.txt
`

func TestLoadFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t,
		afero.WriteFile(fs, "/etc/hooks/config.yaml", []byte(sampleConfig), 0644))

	conf, err := LoadFs(fs, "/etc/hooks/config.yaml")
	require.NoError(t, err)

	require.Equal(t, ":9000", conf.Server.Port)
	require.Equal(t, "pro", conf.Server.LogLevel)
	require.Equal(t, "sekrit", conf.Server.HookSecret)
	require.Equal(t, []string{"chevah-robot"}, conf.Bots)
	require.Equal(t, "/srv/trac/trac.db", conf.Scoreboard.TracDB)

	require.Equal(t, []string{"adiroiban"}, conf.DefaultReviewers.Repo("chevah/server"))
	require.True(t, conf.SkipList().Match("chevah/playground", 1))
}

func TestLoadFsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t,
		afero.WriteFile(fs, "config.yaml", []byte("bots: []\n"), 0644))

	conf, err := LoadFs(fs, "config.yaml")
	require.NoError(t, err)

	require.Equal(t, ":8080", conf.Server.Port)
	require.Equal(t, "dev", conf.Server.LogLevel)
	require.Empty(t, conf.Server.HookSecret)
}

func TestLoadFsMissingFile(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs(), "nope.yaml")
	require.Error(t, err)
}

func TestDefaultReviewers(t *testing.T) {
	d := DefaultReviewers{
		"chevah/server": {"adiroiban"},
		"chevah/":       {"org-reviewer"},
	}

	require.Equal(t, []string{"adiroiban"}, d.Repo("chevah/server"))
	// Keys are stored lower-case, lookups normalize.
	require.Equal(t, []string{"adiroiban"}, d.Repo("Chevah/Server"))
	require.Nil(t, d.Repo("chevah/agent"))

	require.Equal(t, []string{"org-reviewer"}, d.Org("chevah/agent"))
	require.Nil(t, d.Org("other/repo"))
}

func TestParseSkipList(t *testing.T) {
	list := ParseSkipList(" chevah/playground , Chevah/Server#99 ,, ")

	require.True(t, list.Match("chevah/playground", 7))
	require.True(t, list.Match("CHEVAH/playground", 7))
	require.True(t, list.Match("chevah/server", 99))
	require.False(t, list.Match("chevah/server", 100))
	require.False(t, list.Match("chevah/agent", 1))

	require.False(t, ParseSkipList("").Match("chevah/server", 1))
}

func TestIsBot(t *testing.T) {
	conf := &Config{Bots: []string{"Chevah-Robot"}}
	conf.Finish()

	require.True(t, conf.IsBot("chevah-robot"))
	require.True(t, conf.IsBot("dependabot[bot]"))
	require.False(t, conf.IsBot("adiroiban"))
}
