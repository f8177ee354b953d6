package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureCmd(t *testing.T) {
	// t.Chdir requires Go 1.24; do the equivalent by hand.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	origAsk := askOneFunc
	t.Cleanup(func() {
		askOneFunc = origAsk
		viper.Reset()
	})

	inputs := []string{"scons", "myproject", "json", ".scons-time"}
	i := 0
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		switch r := response.(type) {
		case *string:
			*r = inputs[i]
			i++
		case *bool:
			*r = false
		}
		return nil
	}

	cmd := newConfigureCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Configuration saved to scons-time.yaml")
	assert.FileExists(t, "scons-time.yaml")
	assert.Equal(t, "myproject", viper.GetString("project"))
	assert.Equal(t, "json", viper.GetString("history.backend"))
	assert.Equal(t, ".scons-time", viper.GetString("history.dir"))
	assert.False(t, viper.GetBool("notify.enabled"))
}

func TestConfigureCmd_PromptError(t *testing.T) {
	origAsk := askOneFunc
	t.Cleanup(func() { askOneFunc = origAsk })

	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		return assert.AnError
	}

	cmd := newConfigureCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	assert.Error(t, cmd.Execute())
}
