package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/crestchain/evm-bridge-go/pkg/bridge"
	"github.com/crestchain/evm-bridge-go/pkg/codec"
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/ledger/memory"
	"github.com/crestchain/evm-bridge-go/pkg/logger"
	"github.com/crestchain/evm-bridge-go/pkg/registry"
	"github.com/crestchain/evm-bridge-go/pkg/translator"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

func main() {
	app := &cli.App{
		Name:  "bridge-inspect",
		Usage: "Decode and dry-run foreign-format transactions against the bridge",
		Description: `Inspection tooling for the foreign-transaction bridge.

This tool can:
- Decode a raw hex-encoded transaction and recover its sender
- Run the full classification/validation/diff pipeline against an
  in-memory ledger snapshot and print the resulting diff or rejection`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "chain",
				Usage:   "Target chain: mainnet, testnet or devnet",
				Value:   string(config.ChainName_Devnet),
				EnvVars: []string{config.EnvBridgeChain},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvBridgeVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "decode",
				Usage: "Decode a raw transaction and recover its sender",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tx",
						Usage:    "Hex-encoded signed transaction",
						Required: true,
					},
				},
				Action: decodeCommand,
			},
			{
				Name:  "process",
				Usage: "Run the full pipeline against a fresh snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tx",
						Usage:    "Hex-encoded signed transaction",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "asset",
						Usage: "Register a 32-byte hex asset identifier before processing",
					},
					&cli.Int64Flag{
						Name:  "sender-balance",
						Usage: "Native balance to credit the recovered sender with",
						Value: 0,
					},
					&cli.Uint64Flag{
						Name:  "height",
						Usage: "Height to pin the ledger snapshot at",
						Value: 1,
					},
				},
				Action: processCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func chainByte(c *cli.Context) (byte, error) {
	return config.ChainByteForName(config.ChainName(c.String("chain")))
}

func decodeCommand(c *cli.Context) error {
	raw, err := hexutil.Decode(c.String("tx"))
	if err != nil {
		return fmt.Errorf("invalid tx hex: %w", err)
	}
	tx, err := codec.Decode(raw)
	if err != nil {
		return err
	}
	sender, err := codec.SenderForeignAddress(tx)
	if err != nil {
		return err
	}
	chainID, parity, err := tx.ForeignChainID()
	if err != nil {
		return err
	}
	summary := map[string]interface{}{
		"nonce":          tx.Nonce.String(),
		"gasPrice":       tx.GasPrice.String(),
		"gas":            tx.Gas,
		"to":             tx.To.Hex(),
		"value":          tx.Value.String(),
		"dataLength":     len(tx.Data),
		"foreignChainId": chainID,
		"recoveryParity": parity,
		"foreignSender":  sender.Hex(),
	}
	return printJSON(summary)
}

func processCommand(c *cli.Context) error {
	chain, err := chainByte(c)
	if err != nil {
		return err
	}
	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	raw, err := hexutil.Decode(c.String("tx"))
	if err != nil {
		return fmt.Errorf("invalid tx hex: %w", err)
	}

	params := config.DefaultParameters(chain)
	state := memory.NewSnapshot()
	state.SetHeight(c.Uint64("height"))
	state.ActivateFeature(params.BridgeFeature)
	reg := registry.NewInMemoryRegistry()
	for _, assetHex := range c.StringSlice("asset") {
		assetBytes, err := hexutil.Decode(assetHex)
		if err != nil || len(assetBytes) != types.AssetIDLength {
			return fmt.Errorf("invalid asset identifier %q", assetHex)
		}
		var asset types.AssetID
		copy(asset[:], assetBytes)
		reg.Register(asset)
	}

	b, err := bridge.NewBridge(params, state, reg, vm.NewStubExecutor(), zapLogger)
	if err != nil {
		return err
	}

	if balance := c.Int64("sender-balance"); balance > 0 {
		tx, err := codec.Decode(raw)
		if err != nil {
			return err
		}
		foreign, err := codec.SenderForeignAddress(tx)
		if err != nil {
			return err
		}
		state.SetBalance(translator.NativeAddress(foreign, chain), types.AssetCrest, balance)
	}

	result, err := b.ProcessTransaction(raw)
	if err != nil {
		return err
	}
	height, err := state.Height()
	if err != nil {
		return err
	}
	out := map[string]interface{}{
		"outcome": result.Outcome,
		"height":  height,
	}
	if result.Diff != nil {
		out["diff"] = result.Diff
		before, err := state.BalanceOf(result.Sender, types.AssetCrest)
		if err != nil {
			return err
		}
		out["senderNativeBalance"] = map[string]int64{
			"before": before,
			"after":  before + result.Diff.Delta(result.Sender, types.AssetCrest),
		}
	}
	return printJSON(out)
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
