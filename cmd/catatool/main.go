// catatool is a CLI for offline transaction work against a catapult-family
// chain: payload inspection, transfer signing and account derivation, plus a
// websocket watch mode.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/dto"
	"github.com/catapulthq/catapult-sdk/pkg/listener"
	"github.com/catapulthq/catapult-sdk/pkg/log"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

// Profile describes the network a command signs for or connects to.
type Profile struct {
	Network         string `yaml:"network"`
	GenerationHash  string `yaml:"generationHash"`
	EpochAdjustment uint64 `yaml:"epochAdjustment"`
	WebsocketURL    string `yaml:"websocketUrl"`
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

func (p *Profile) networkType() (model.NetworkType, error) {
	switch strings.ToLower(p.Network) {
	case "mainnet":
		return model.MainNet, nil
	case "testnet":
		return model.TestNet, nil
	case "mijin":
		return model.Mijin, nil
	case "mijintest":
		return model.MijinTest, nil
	case "private":
		return model.Private, nil
	case "privatetest":
		return model.PrivateTest, nil
	}
	return 0, fmt.Errorf("unknown network %q in profile", p.Network)
}

func (p *Profile) generationHash() ([]byte, error) {
	hash, err := codec.FromHex(p.GenerationHash)
	if err != nil {
		return nil, err
	}
	if len(hash) != transaction.GenerationHashSize {
		return nil, fmt.Errorf("generation hash must have length of %d but received %d", transaction.GenerationHashSize, len(hash))
	}
	return hash, nil
}

func printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func accountFromFlags(c *cli.Context, network model.NetworkType) (*model.Account, error) {
	if phrase := c.String("recovery-phrase"); phrase != "" {
		return model.NewAccountFromRecoveryPhrase(phrase, c.String("path"), network)
	}
	if passphrase := c.String("passphrase"); passphrase != "" {
		return model.NewAccountFromPassphrase(passphrase, network)
	}
	if key := c.String("private-key"); key != "" {
		raw, err := codec.FromHex(key)
		if err != nil {
			return nil, err
		}
		return model.NewAccountFromPrivateKey(raw, network)
	}
	return nil, fmt.Errorf("one of --recovery-phrase, --passphrase or --private-key is required")
}

func parseMosaics(values []string) ([]model.Mosaic, error) {
	mosaics := make([]model.Mosaic, 0, len(values))
	for _, value := range values {
		parts := strings.SplitN(value, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("mosaic %q must have the form hexId:amount", value)
		}
		id, err := model.NewMosaicIDFromHex(parts[0])
		if err != nil {
			return nil, err
		}
		amount, err := codec.Uint64FromString(parts[1])
		if err != nil {
			return nil, err
		}
		mosaics = append(mosaics, model.NewMosaic(id, amount))
	}
	return mosaics, nil
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Decode a serialized transaction payload",
		ArgsUsage: "<payload hex>",
		Action: func(c *cli.Context) error {
			payload := c.Args().First()
			if payload == "" {
				return fmt.Errorf("payload hex is required")
			}
			tx, err := transaction.FromHex(payload)
			if err != nil {
				return err
			}
			wrapper, err := dto.MapToWrapper(tx)
			if err != nil {
				return err
			}
			return printJSON(wrapper)
		},
	}
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Build and sign a transfer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Aliases: []string{"c"}, Usage: "Path to a network profile", Required: true},
			&cli.StringFlag{Name: "recipient", Usage: "Recipient address in plain base32 form", Required: true},
			&cli.StringSliceFlag{Name: "mosaic", Usage: "Attached mosaic as hexId:amount, repeatable"},
			&cli.StringFlag{Name: "message", Usage: "Plain message text"},
			&cli.DurationFlag{Name: "expires-in", Usage: "Deadline distance from now", Value: 2 * time.Hour},
			&cli.UintFlag{Name: "fee-multiplier", Usage: "Max fee multiplier per payload byte"},
			&cli.StringFlag{Name: "passphrase", Usage: "Account passphrase"},
			&cli.StringFlag{Name: "recovery-phrase", Usage: "Account bip39 recovery phrase"},
			&cli.StringFlag{Name: "path", Usage: "SLIP-10 derivation path for --recovery-phrase", Value: "m/44'/4343'/0'/0'/0'"},
			&cli.StringFlag{Name: "private-key", Usage: "Account private key hex"},
		},
		Action: func(c *cli.Context) error {
			profile, err := loadProfile(c.String("profile"))
			if err != nil {
				return err
			}
			network, err := profile.networkType()
			if err != nil {
				return err
			}
			generationHash, err := profile.generationHash()
			if err != nil {
				return err
			}
			signer, err := accountFromFlags(c, network)
			if err != nil {
				return err
			}
			recipient, err := model.NewAddressFromPlain(c.String("recipient"))
			if err != nil {
				return err
			}
			mosaics, err := parseMosaics(c.StringSlice("mosaic"))
			if err != nil {
				return err
			}
			message, err := model.NewPlainMessage(c.String("message"))
			if err != nil {
				return err
			}
			deadline, err := model.NewDeadline(profile.EpochAdjustment, c.Duration("expires-in"))
			if err != nil {
				return err
			}
			var tx transaction.Transaction = transaction.NewTransferTransaction(recipient, mosaics, message, deadline, network)
			if multiplier := c.Uint("fee-multiplier"); multiplier > 0 {
				if tx, err = transaction.SetMaxFee(tx, uint32(multiplier)); err != nil {
					return err
				}
			}
			signed, err := transaction.Sign(tx, signer, generationHash)
			if err != nil {
				return err
			}
			return printJSON(signed)
		},
	}
}

func accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Derive an account and print its address and public key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "network", Usage: "Network name", Value: "testnet"},
			&cli.StringFlag{Name: "passphrase", Usage: "Account passphrase"},
			&cli.StringFlag{Name: "recovery-phrase", Usage: "Account bip39 recovery phrase"},
			&cli.StringFlag{Name: "path", Usage: "SLIP-10 derivation path for --recovery-phrase", Value: "m/44'/4343'/0'/0'/0'"},
			&cli.StringFlag{Name: "private-key", Usage: "Account private key hex"},
		},
		Action: func(c *cli.Context) error {
			profile := &Profile{Network: c.String("network")}
			network, err := profile.networkType()
			if err != nil {
				return err
			}
			account, err := accountFromFlags(c, network)
			if err != nil {
				return err
			}
			return printJSON(struct {
				Address   string    `json:"address"`
				PublicKey codec.Hex `json:"publicKey"`
			}{
				Address:   account.Address.Plain(),
				PublicKey: account.PublicKey,
			})
		},
	}
}

func watchCommand(logger log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Stream transactions concerning an address",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Aliases: []string{"c"}, Usage: "Path to a network profile", Required: true},
			&cli.StringFlag{Name: "address", Usage: "Watched address in plain base32 form", Required: true},
			&cli.BoolFlag{Name: "unconfirmed", Usage: "Watch the unconfirmed cache instead of confirmed blocks"},
		},
		Action: func(c *cli.Context) error {
			profile, err := loadProfile(c.String("profile"))
			if err != nil {
				return err
			}
			if profile.WebsocketURL == "" {
				return fmt.Errorf("profile has no websocketUrl")
			}
			address, err := model.NewAddressFromPlain(c.String("address"))
			if err != nil {
				return err
			}
			node, err := listener.Dial(c.Context, profile.WebsocketURL, logger)
			if err != nil {
				return err
			}
			defer node.Close()

			subscribe := node.ConfirmedAdded
			if c.Bool("unconfirmed") {
				subscribe = node.UnconfirmedAdded
			}
			sub, err := subscribe(address)
			if err != nil {
				return err
			}
			logger.Infof("Watching %s on %s", address.Plain(), profile.WebsocketURL)

			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
			for {
				select {
				case <-signalChan:
					return nil
				case tx, ok := <-sub.Transactions():
					if !ok {
						return nil
					}
					wrapper, err := dto.MapToWrapper(tx)
					if err != nil {
						logger.Errorf("Fail to map transaction with %s", err)
						continue
					}
					if err := printJSON(wrapper); err != nil {
						return err
					}
				}
			}
		},
	}
}

func main() {
	logger, err := log.NewDefaultProductionLogger()
	if err != nil {
		panic(err)
	}
	app := cli.App{
		Name:  "catatool",
		Usage: "Offline tooling for catapult transactions",
		Commands: []*cli.Command{
			inspectCommand(),
			signCommand(),
			accountCommand(),
			watchCommand(logger),
		},
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		logger.Errorf("Fail to run command with %s", err)
		os.Exit(1)
	}
}
