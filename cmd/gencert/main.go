// Command gencert writes a self-signed certificate pair for local HTTPS.
package main

import (
	"flag"
	"os"
	"strings"

	"etalase/internal/app"
	"etalase/pkg/logx"
)

func main() {
	certFile := flag.String("cert", "localhost.crt", "certificate output path")
	keyFile := flag.String("key", "localhost.key", "private key output path")
	hosts := flag.String("hosts", "", "extra comma separated host names or IPs")
	flag.Parse()

	logx.Init()

	var extra []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			extra = append(extra, h)
		}
	}

	certPEM, keyPEM, err := app.SelfSignedPEM(extra...)
	if err != nil {
		logx.Fatal().Err(err).Msg("certificate could not be generated")
	}
	if err := os.WriteFile(*certFile, certPEM, 0644); err != nil {
		logx.Fatal().Err(err).Str("path", *certFile).Msg("certificate could not be written")
	}
	if err := os.WriteFile(*keyFile, keyPEM, 0600); err != nil {
		logx.Fatal().Err(err).Str("path", *keyFile).Msg("key could not be written")
	}
	logx.Info().Str("cert", *certFile).Str("key", *keyFile).Strs("hosts", extra).Msg("self-signed certificate written")
}
