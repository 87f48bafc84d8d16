// steamnet probe: dials CM servers from config/cache and performs the
// channel-encrypt handshake against the first one that answers.
package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"dev.ventlab.steamnet/internal/cm"
	"dev.ventlab.steamnet/internal/config"
	"dev.ventlab.steamnet/internal/crypto"
	"dev.ventlab.steamnet/internal/store"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("STEAMNET_CONFIG"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			logrus.Fatal(err)
		}
	}
	if addr := os.Getenv("STEAMNET_SERVER"); addr != "" {
		cfg.Servers = append([]string{addr}, cfg.Servers...)
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	} else {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	db, err := store.Open(cfg.CachePath)
	if err != nil {
		logrus.Fatal("open cache: ", err)
	}
	defer db.Close()
	for _, addr := range cfg.Servers {
		if err := db.AddServer(addr, 1); err != nil {
			logrus.Fatal("seed cache: ", err)
		}
	}

	candidates, err := db.Servers()
	if err != nil {
		logrus.Fatal("list servers: ", err)
	}
	if len(candidates) == 0 {
		logrus.Fatal("no servers: set STEAMNET_SERVER or servers in config")
	}

	pub, err := crypto.UniversePublicKey()
	if err != nil {
		logrus.Fatal("universe key: ", err)
	}
	keys := crypto.NewGenerator(pub)
	timeout := time.Duration(cfg.DialTimeoutSec) * time.Second

	for _, srv := range candidates {
		conn, err := cm.Connect(srv.Addr, timeout, keys)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"addr": srv.Addr,
			}).Warn("handshake failed: ", err)
			_ = db.RecordFailure(srv.Addr)
			continue
		}
		_ = db.RecordSuccess(srv.Addr)
		logrus.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"protocol": conn.Protocol(),
			"universe": conn.Universe(),
		}).Info("probe ok")
		conn.Close()
		return
	}
	logrus.Fatal("all servers failed")
}
