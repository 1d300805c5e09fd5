package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestSetup_RegistersWebhookAndAnnounces(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.Telegram.ChannelID = "@news"
	platform := &fakePlatform{}

	me, err := Setup(context.Background(), platform, cfg, logger)

	require.NoError(t, err)
	require.Equal(t, "relay_bot", me.UserName)
	require.Equal(t, []string{"self", "deleteWebhook", "setWebhook", "sendToChannel"}, platform.calls)
	require.Equal(t, "https://relay.example.com/webhook", platform.webhookURL)
	require.Equal(t, 50, platform.maxConns)
	require.Equal(t, []sent{{Channel: "@news", Text: "online"}}, platform.Sent())
}

func TestSetup_NoChannelSkipsAnnouncement(t *testing.T) {
	logger, _ := test.NewNullLogger()
	platform := &fakePlatform{}

	_, err := Setup(context.Background(), platform, testConfig(), logger)

	require.NoError(t, err)
	require.Equal(t, []string{"self", "deleteWebhook", "setWebhook"}, platform.calls)
	require.Empty(t, platform.Sent())
}

func TestSetup_AnnouncementFailureIsNotFatal(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cfg := testConfig()
	cfg.Telegram.ChannelID = "-100123"
	platform := &fakePlatform{sendErrs: []error{errors.New("bot is not a member")}}

	_, err := Setup(context.Background(), platform, cfg, logger)

	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSetup_FatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
	}{
		{name: "getMe", platform: &fakePlatform{selfErr: errors.New("unauthorized")}},
		{name: "deleteWebhook", platform: &fakePlatform{deleteErr: errors.New("timeout")}},
		{name: "setWebhook", platform: &fakePlatform{setErr: errors.New("bad webhook: HTTPS url must be provided")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			cfg := testConfig()
			cfg.Telegram.ChannelID = "@news"

			_, err := Setup(context.Background(), tt.platform, cfg, logger)

			require.Error(t, err)
			require.NotContains(t, tt.platform.calls, "sendToChannel")
		})
	}
}
