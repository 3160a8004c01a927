package config

import (
	"flag"
	"io"
)

const defaultSinkAddress = "localhost:9090"

// SinkConfig configures the development sink server.
type SinkConfig struct {
	Address string
	Key     string
}

// LoadSinkConfig resolves the sink server configuration with
// ENV > CLI > defaults.
func LoadSinkConfig(args []string, out io.Writer) (SinkConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("sink", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var keyOpt string

	fs.StringVar(&addrOpt, "a", "", "ADDRESS to listen on, default: "+defaultSinkAddress)
	fs.StringVar(&keyOpt, "k", "", "secret key for HashSHA256 body verification")

	if err := fs.Parse(args); err != nil {
		return SinkConfig{}, err
	}

	return SinkConfig{
		Address: FromEnvOrFlag("ADDRESS", addrOpt, defaultSinkAddress),
		Key:     FromEnvOrFlag("KEY", keyOpt, ""),
	}, nil
}
