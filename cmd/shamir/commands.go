package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/izouxv/goShamir/casefile"
	"github.com/izouxv/goShamir/keystore"
	"github.com/izouxv/goShamir/radix"
	"github.com/izouxv/goShamir/shamir"
	"github.com/izouxv/goShamir/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const passwordEnv = "SHAMIR_PASSWORD"

var errNoPassword = errors.New("no password: use --password or " + passwordEnv)

type options struct {
	silent   bool
	logLevel string
	policy   string
	format   string
	password string
	out      string
	docType  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "shamir",
		Short:         "Reconstruct secrets from base-encoded polynomial shares",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			if opts.silent {
				level = zerolog.Disabled
			}
			utils.SetupLogger(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&opts.silent, "silent", false, "disable logs and print only results")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve [file...]",
		Short: "Reconstruct the secret of each share document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := shamir.ParsePolicy(opts.policy)
			if err != nil {
				return err
			}
			for _, path := range args {
				in, err := casefile.Load(path)
				if err != nil {
					return err
				}
				if err := solve(cmd.OutOrStdout(), filepath.Base(path), in, policy, opts.format); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	solveCmd.Flags().StringVar(&opts.policy, "policy", shamir.PolicyVerify.String(), "share selection policy (first-k, verify, recover)")
	solveCmd.Flags().StringVar(&opts.format, "format", "dec", "secret output format (dec, hex)")

	decodeCmd := &cobra.Command{
		Use:   "decode [value] [base]",
		Short: "Decode a value written in the given base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid base %q", args[1])
			}
			v, err := radix.Decode(args[0], base)
			if err != nil {
				return err
			}
			log.Debug().Str("layer", utils.LayerDecode).Int("base", base).Int("digits", len(args[0])).Int("bits", v.BitLen()).Msg("decoded")
			text, err := formatSecret(v, opts.format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	decodeCmd.Flags().StringVar(&opts.format, "format", "dec", "output format (dec, hex)")

	encodeCmd := &cobra.Command{
		Use:   "encode [value] [base]",
		Short: "Write a non-negative decimal value in the given base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid base %q", args[1])
			}
			v, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return fmt.Errorf("invalid decimal value %q", args[0])
			}
			text, err := radix.Encode(v, base)
			if err != nil {
				return err
			}
			log.Debug().Str("layer", utils.LayerDecode).Int("base", base).Int("bits", v.BitLen()).Int("digits", len(text)).Msg("encoded")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	sealCmd := &cobra.Command{
		Use:   "seal [file]",
		Short: "Encrypt a share document under a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := resolvePassword(opts.password)
			if err != nil {
				return err
			}
			in, err := casefile.Load(args[0])
			if err != nil {
				return err
			}
			sealed, err := keystore.Seal(in, password)
			if err != nil {
				return err
			}
			log.Info().Str("layer", utils.LayerKeystore).Str("id", in.ID).Int("shares", len(in.Shares)).Msg("sealed share set")
			return writeOutput(cmd.OutOrStdout(), opts.out, sealed)
		},
	}
	sealCmd.Flags().StringVar(&opts.password, "password", "", "bundle password (default $"+passwordEnv+")")
	sealCmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the bundle to this file instead of stdout")

	unsealCmd := &cobra.Command{
		Use:   "unseal [bundle]",
		Short: "Decrypt a sealed bundle back into a share document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := casefile.ParseFormat(opts.docType)
			if err != nil {
				return err
			}
			password, err := resolvePassword(opts.password)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			in, err := keystore.Open(data, password)
			if err != nil {
				return err
			}
			doc, err := casefile.Marshal(in, format)
			if err != nil {
				return err
			}
			log.Info().Str("layer", utils.LayerKeystore).Str("id", in.ID).Int("shares", len(in.Shares)).Msg("opened share set")
			return writeOutput(cmd.OutOrStdout(), opts.out, doc)
		},
	}
	unsealCmd.Flags().StringVar(&opts.password, "password", "", "bundle password (default $"+passwordEnv+")")
	unsealCmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the document to this file instead of stdout")
	unsealCmd.Flags().StringVar(&opts.docType, "type", "json", "document type (json, yaml)")

	rootCmd.AddCommand(solveCmd, decodeCmd, encodeCmd, sealCmd, unsealCmd)
	return rootCmd
}

func solve(w io.Writer, name string, in *shamir.Instance, policy shamir.Policy, format string) error {
	logger := log.With().Str("layer", utils.LayerSolve).Str("file", name).Logger()

	points, err := in.Points()
	if err != nil {
		return err
	}
	fp, err := shamir.Fingerprint(points)
	if err != nil {
		return err
	}
	logger.Info().Str("id", in.ID).Int("n", in.N).Int("k", in.K).Int("degree", in.K-1).
		Int("shares", len(points)).Str("fingerprint", fp).Stringer("policy", policy).Msg("loaded shares")
	for i, p := range points {
		logger.Debug().Int64("x", in.Shares[i].X).Int("base", in.Shares[i].Base).Str("y", p.Y.String()).Msg("decoded share")
	}

	var secret *big.Int
	switch policy {
	case shamir.PolicyRecover:
		r, err := shamir.Recover(points, in.K)
		if err != nil {
			return err
		}
		for _, p := range r.Rejected {
			logger.Warn().Str("x", p.X.String()).Msg("share is not on the recovered polynomial")
		}
		if !r.Corroborated() && len(points) > in.K {
			logger.Warn().Msg("no share beyond the threshold confirms the recovered polynomial")
		}
		secret = r.Secret
	case shamir.PolicyVerify:
		secret, err = shamir.ReconstructVerified(points, in.K)
	default:
		secret, err = shamir.ReconstructSecret(points, in.K)
	}
	if err != nil {
		return err
	}

	logger.Info().Int("bits", secret.BitLen()).Msg("secret reconstructed")
	text, err := formatSecret(secret, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", name, text)
	return err
}

func formatSecret(v *big.Int, format string) (string, error) {
	switch format {
	case "dec":
		return v.String(), nil
	case "hex":
		return hexutil.EncodeBig(v), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	return "", errNoPassword
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0600)
}
