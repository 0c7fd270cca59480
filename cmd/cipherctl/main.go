package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cnslab/cipherform-go"
	"github.com/cnslab/cipherform-go/algorithm"
	"github.com/cnslab/cipherform-go/internal/config"
)

const usage = "usage: cipherctl <encrypt|decrypt|check|algorithms> [flags]"

// Config holds the I/O streams and .env files used by run.
type Config struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	EnvFiles []string
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		EnvFiles: []string{".env"},
	}
}

// submitter is the part of *cipherform.Client used by the submit commands.
type submitter interface {
	Submit(ctx context.Context, st *algorithm.State) (*cipherform.Result, error)
}

// SubmitOutput is printed after a successful encrypt or decrypt.
type SubmitOutput struct {
	Result    string `json:"result"`
	Empty     bool   `json:"empty,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// CheckOutput is printed by the check command.
type CheckOutput struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	KeyHint string `json:"key_hint"`
}

// AlgorithmOutput describes one registry entry.
type AlgorithmOutput struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	RequiresKey bool   `json:"requires_key"`
	KeyLengths  []int  `json:"key_lengths,omitempty"`
	Dynamic     bool   `json:"dynamic_key_length,omitempty"`
}

func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch cmd := args[1]; cmd {
	case "encrypt", "decrypt":
		conf, err := config.Load(cfg.EnvFiles...)
		if err != nil {
			return err
		}
		client, err := newClient(conf)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		return runSubmit(ctx, client, cfg, algorithm.Operation(cmd), conf.Backend.OTPFill, args[2:])
	case "check":
		return runCheck(cfg, args[2:])
	case "algorithms":
		return runAlgorithms(cfg)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func newClient(conf *config.Config) (*cipherform.Client, error) {
	logger, err := conf.NewLogger()
	if err != nil {
		return nil, err
	}
	return cipherform.New(
		cipherform.WithBaseURL(conf.Backend.BaseURL),
		cipherform.WithTimeout(conf.Backend.Timeout),
		cipherform.WithFill(conf.Backend.OTPFill),
		cipherform.WithLogger(logger),
	)
}

// requestFlags are the flags shared by every command that builds a request.
type requestFlags struct {
	fs        *flag.FlagSet
	algorithm string
	key       string
	message   string
}

func newRequestFlags(name string, cfg *Config) *requestFlags {
	rf := &requestFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	rf.fs.SetOutput(cfg.Stderr)
	rf.fs.StringVar(&rf.algorithm, "alg", string(algorithm.OTP), "Algorithm: otp, 3des, aes or rsa")
	rf.fs.StringVar(&rf.key, "key", "", "Cipher key (ignored for rsa)")
	rf.fs.StringVar(&rf.message, "message", "", "Message text; default: stdin")
	return rf
}

// state builds the request, reading the message from stdin when -message
// was not given.
func (rf *requestFlags) state(cfg *Config, op algorithm.Operation) (*algorithm.State, error) {
	name, err := algorithm.Parse(rf.algorithm)
	if err != nil {
		return nil, err
	}

	msg := rf.message
	if msg == "" && cfg.Stdin != nil {
		data, err := io.ReadAll(cfg.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		msg = strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	}

	return &algorithm.State{
		Message:   msg,
		Key:       rf.key,
		Algorithm: name,
		Operation: op,
	}, nil
}

func runSubmit(ctx context.Context, client submitter, cfg *Config, op algorithm.Operation, fill rune, args []string) error {
	rf := newRequestFlags(string(op), cfg)
	sync := rf.fs.Bool("sync", false, "Pad or truncate an OTP encryption key to the message length")
	if err := rf.fs.Parse(args); err != nil {
		return err
	}

	st, err := rf.state(cfg, op)
	if err != nil {
		return err
	}

	if *sync {
		s, err := algorithm.NewSynchronizer(algorithm.WithFill(fill))
		if err != nil {
			return err
		}
		s.Sync(st)
	}

	res, err := client.Submit(ctx, st)
	if err != nil {
		return fmt.Errorf("%s: %s", op, cipherform.ReasonOf(err))
	}

	out := SubmitOutput{
		Result:    res.Text,
		Empty:     res.Empty,
		RequestID: res.RequestID,
	}
	if err := json.NewEncoder(cfg.Stdout).Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func runCheck(cfg *Config, args []string) error {
	rf := newRequestFlags("check", cfg)
	opName := rf.fs.String("op", string(algorithm.Encrypt), "Operation: encrypt or decrypt")
	if err := rf.fs.Parse(args); err != nil {
		return err
	}

	op, err := algorithm.ParseOperation(*opName)
	if err != nil {
		return err
	}
	st, err := rf.state(cfg, op)
	if err != nil {
		return err
	}

	outcome := algorithm.Check(st)
	out := CheckOutput{
		Valid:   outcome.Valid,
		Reason:  outcome.Reason,
		KeyHint: algorithm.KeyHint(st),
	}
	if err := json.NewEncoder(cfg.Stdout).Encode(out); err != nil {
		return fmt.Errorf("encode check: %w", err)
	}
	return nil
}

func runAlgorithms(cfg *Config) error {
	specs := algorithm.All()
	out := make([]AlgorithmOutput, 0, len(specs))
	for _, s := range specs {
		out = append(out, AlgorithmOutput{
			Name:        string(s.Name),
			DisplayName: s.DisplayName,
			RequiresKey: s.RequiresKey,
			KeyLengths:  s.KeyLengths,
			Dynamic:     s.DynamicKeyLength,
		})
	}
	if err := json.NewEncoder(cfg.Stdout).Encode(out); err != nil {
		return fmt.Errorf("encode algorithms: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
