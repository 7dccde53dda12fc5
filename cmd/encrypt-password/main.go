// Command encrypt-password prints the stored form of a password: RSA
// encrypted with the service public key and base64 encoded. The output goes
// into account.password.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/infrastructure/crypto/rsakeys"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		keyFile  = flag.String("key-file", os.Getenv("RSA_PUBLIC_KEY_FILE"), "Path to the PKIX public key")
		key      = flag.String("key", os.Getenv("RSA_PUBLIC_KEY"), "Public key, PEM or bare base64")
		password = flag.String("password", "", "Password to encrypt. Read from stdin when empty")
	)
	flag.Parse()

	raw := *key
	if raw == "" {
		if *keyFile == "" {
			log.Fatal().Msg("missing public key: provide -key, -key-file, RSA_PUBLIC_KEY or RSA_PUBLIC_KEY_FILE")
		}
		b, err := os.ReadFile(*keyFile)
		if err != nil {
			log.Fatal().Err(err).Msg("read public key")
		}
		raw = string(b)
	}

	pub, err := rsakeys.ParsePublic(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("parse public key")
	}

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatal().Err(err).Msg("read password from stdin")
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		log.Fatal().Msg("password is empty")
	}

	out, err := pub.Encrypt(plain)
	if err != nil {
		log.Fatal().Err(err).Msg("encrypt")
	}
	fmt.Println(out)
}
