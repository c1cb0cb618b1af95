package main

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/irctrakz/twoping/pkg/config"
	"github.com/irctrakz/twoping/pkg/logging"
)

// handoff receives the resolved configuration in place of the probing
// engine. It applies the configured verbosity and reports what was
// resolved.
func handoff(cfg config.Config) error {
	logging.SetLevel(logging.LevelFor(cfg.Quiet, cfg.Verbose, cfg.Debug))

	target := cfg.Host
	if cfg.Listen {
		target = "listen"
	}
	logging.InfoWithFields(logrus.Fields{
		"target":          target,
		"port":            cfg.Port,
		"min_packet_size": cfg.MinPacketSize,
		"max_packet_size": cfg.MaxPacketSize,
		"auth_digest_id":  cfg.AuthDigestID,
	}, "configuration resolved")

	if logging.IsEnabled(logging.DebugLevel) {
		var buf bytes.Buffer
		if err := cfg.Dump(&buf); err != nil {
			return fmt.Errorf("dump configuration: %w", err)
		}
		logging.Debugf("resolved configuration:\n%s", buf.String())
	}
	return nil
}
