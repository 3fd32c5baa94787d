// Copyright 2026 Shardkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary is the main entrypoint for the shardkit command line tool,
// an operational wrapper around the custody SDK: key generation, wallet
// shard generation, derivation, and recovery.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flag"
	"github.com/alecthomas/colour"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
	"github.com/opencustody/shardkit/custody"
	"github.com/opencustody/shardkit/custody/envelope"
	"github.com/opencustody/shardkit/custody/shards"
	"sigs.k8s.io/yaml"
)

const (
	// The default name for the shardkit configuration file.
	defaultConfigName string = "shardkit.yaml"

	// The current version, displayed via the `version` subcommand.
	shardkitVersion string = "0.1.0"

	// Names of the shard artifacts written by generate and recover.
	deviceShardName   = "device_shard.json"
	authShardName     = "auth_shard.hex"
	recoveryShardName = "recovery_shard.json"
)

// cliConfig mirrors the YAML configuration file. All paths are resolved
// relative to the working directory.
type cliConfig struct {
	// DeviceKeyFile holds the device symmetric key as hex.
	DeviceKeyFile string `json:"deviceKeyFile"`
	// NewDeviceKeyFile holds the replacement device key used by recover.
	NewDeviceKeyFile string `json:"newDeviceKeyFile"`
	// DeviceShardFile holds an encrypted device shard envelope (JSON).
	DeviceShardFile string `json:"deviceShardFile"`
	// AuthShardFile holds the plain hex auth shard.
	AuthShardFile string `json:"authShardFile"`
	// RecoveryShardFile holds an encrypted recovery shard envelope (JSON).
	RecoveryShardFile string `json:"recoveryShardFile"`
	// RecoverySalt is the hex salt for recovery-answer key derivation.
	RecoverySalt string `json:"recoverySalt"`
}

func defaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
		return defaultConfigName
	}
	return filepath.Join(cfgDir, defaultConfigName)
}

func readConfig(path string) (*cliConfig, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := &cliConfig{}
	if err := yaml.Unmarshal(yamlBytes, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}
	return cfg, nil
}

// readKeyFile reads a hex-encoded symmetric key from path.
func readKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decoding key hex: %w", err)
	}
	return key, nil
}

// promptRecoveryAnswer reads the recovery answer from stdin and derives the
// recovery key with the configured salt.
func promptRecoveryAnswer(cfg *cliConfig) ([]byte, error) {
	salt, err := hex.DecodeString(cfg.RecoverySalt)
	if err != nil {
		return nil, fmt.Errorf("decoding recovery salt: %w", err)
	}
	fmt.Fprint(os.Stderr, "Recovery answer: ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading recovery answer: %w", err)
	}
	return envelope.DeriveKey([]byte(strings.TrimSpace(answer)), salt), nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// keygenCmd handles CLI options for key generation.
type keygenCmd struct {
	out     string
	keypair bool
}

func (*keygenCmd) Name() string { return "keygen" }
func (*keygenCmd) Synopsis() string {
	return "generates a symmetric device key or an EC key pair"
}
func (*keygenCmd) Usage() string {
	return `Usage: shardkit keygen [--keypair] [--out=<path>]

Examples:
  Generate a device key as hex:
    $ shardkit keygen --out device.key

  Generate a P-256 key pair for backend-bound shard encryption:
    $ shardkit keygen --keypair --out backend

Flags:
`
}
func (k *keygenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&k.out, "out", "key", "Output path (prefix for --keypair).")
	f.BoolVar(&k.keypair, "keypair", false, "Generate a P-256 key pair instead of a symmetric key.")
}

func (k *keygenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !k.keypair {
		key := hex.EncodeToString(envelope.GenerateKey())
		if err := os.WriteFile(k.out, []byte(key+"\n"), 0600); err != nil {
			glog.Errorf("Failed to write key file: %v", err.Error())
			return subcommands.ExitFailure
		}
		colour.Printf("^2Wrote symmetric key to %s^R\n", k.out)
		return subcommands.ExitSuccess
	}

	priv, err := envelope.GenerateKeyPair()
	if err != nil {
		glog.Errorf("Failed to generate key pair: %v", err.Error())
		return subcommands.ExitFailure
	}
	privPEM, err := envelope.MarshalPrivateKey(priv)
	if err != nil {
		glog.Errorf("Failed to marshal private key: %v", err.Error())
		return subcommands.ExitFailure
	}
	pubPEM, err := envelope.MarshalPublicKey(priv.PublicKey())
	if err != nil {
		glog.Errorf("Failed to marshal public key: %v", err.Error())
		return subcommands.ExitFailure
	}
	privPath := k.out + ".pem"
	pubPath := k.out + ".pub.pem"
	if err := os.WriteFile(privPath, privPEM, 0600); err != nil {
		glog.Errorf("Failed to write private key: %v", err.Error())
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(pubPath, pubPEM, 0644); err != nil {
		glog.Errorf("Failed to write public key: %v", err.Error())
		return subcommands.ExitFailure
	}
	colour.Printf("^2Wrote key pair to %s and %s^R\n", privPath, pubPath)
	return subcommands.ExitSuccess
}

// generateCmd handles CLI options for the wallet generation flow.
type generateCmd struct {
	configFile string
	outDir     string
	words      int
}

func (*generateCmd) Name() string { return "generate" }
func (*generateCmd) Synopsis() string {
	return "generates a wallet secret and splits it into custody shards"
}
func (*generateCmd) Usage() string {
	return fmt.Sprintf(`Usage: shardkit generate [--config-file=<config_file>] [--words=12|24] [--out-dir=<dir>]

Generates a fresh mnemonic, splits it 2-of-3, seals the device shard under
the configured device key and the recovery shard under a key derived from
the recovery answer (prompted on stdin), and writes the three artifacts to
the output directory. The default config file is %s.

Flags:
`, defaultConfigPath())
}
func (g *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&g.configFile, "config-file", defaultConfigPath(), "Path to a shardkit YAML config file.")
	f.StringVar(&g.outDir, "out-dir", ".", "Directory to write shard artifacts to.")
	f.IntVar(&g.words, "words", 12, "Mnemonic length in words (12 or 24).")
}

func (g *generateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := readConfig(g.configFile)
	if err != nil {
		glog.Errorf("Failed to read config: %v", err.Error())
		return subcommands.ExitFailure
	}
	deviceKey, err := readKeyFile(cfg.DeviceKeyFile)
	if err != nil {
		glog.Errorf("Failed to read device key: %v", err.Error())
		return subcommands.ExitFailure
	}
	recoveryKey, err := promptRecoveryAnswer(cfg)
	if err != nil {
		glog.Errorf("Failed to derive recovery key: %v", err.Error())
		return subcommands.ExitFailure
	}

	var entropyBits int
	switch g.words {
	case 12:
		entropyBits = 128
	case 24:
		entropyBits = 256
	default:
		glog.Errorf("Unsupported word count %d (expected 12 or 24)", g.words)
		return subcommands.ExitFailure
	}

	client := custody.NewClient(nil)
	generated, err := client.GenerateWallet(ctx, deviceKey, recoveryKey, entropyBits)
	if err != nil {
		glog.Errorf("Failed to generate wallet: %v", err.Error())
		return subcommands.ExitFailure
	}

	for _, artifact := range []struct {
		name string
		data string
	}{
		{name: deviceShardName, data: generated.EncryptedDeviceShard},
		{name: authShardName, data: generated.AuthShard},
		{name: recoveryShardName, data: generated.EncryptedRecoveryShard},
	} {
		path, err := writeFile(g.outDir, artifact.name, []byte(artifact.data+"\n"))
		if err != nil {
			glog.Errorf("Failed to write %s: %v", artifact.name, err.Error())
			return subcommands.ExitFailure
		}
		fmt.Println("Wrote", path)
	}
	colour.Printf("^2Generated wallet %s^R\n", generated.WalletID)
	return subcommands.ExitSuccess
}

// deriveCmd handles CLI options for the derive flow.
type deriveCmd struct {
	configFile string
}

func (*deriveCmd) Name() string { return "derive" }
func (*deriveCmd) Synopsis() string {
	return "reconstructs the wallet secret from the device and auth shards"
}
func (*deriveCmd) Usage() string {
	return `Usage: shardkit derive [--config-file=<config_file>]

Decrypts the configured device shard with the device key, combines it with
the auth shard, and prints the reconstructed mnemonic to stdout. Treat the
output as the root secret it is.

Flags:
`
}
func (d *deriveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.configFile, "config-file", defaultConfigPath(), "Path to a shardkit YAML config file.")
}

func (d *deriveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := readConfig(d.configFile)
	if err != nil {
		glog.Errorf("Failed to read config: %v", err.Error())
		return subcommands.ExitFailure
	}
	deviceKey, err := readKeyFile(cfg.DeviceKeyFile)
	if err != nil {
		glog.Errorf("Failed to read device key: %v", err.Error())
		return subcommands.ExitFailure
	}
	deviceShard, err := os.ReadFile(cfg.DeviceShardFile)
	if err != nil {
		glog.Errorf("Failed to read device shard: %v", err.Error())
		return subcommands.ExitFailure
	}
	authShard, err := os.ReadFile(cfg.AuthShardFile)
	if err != nil {
		glog.Errorf("Failed to read auth shard: %v", err.Error())
		return subcommands.ExitFailure
	}

	client := custody.NewClient(nil)
	derived, err := client.DeriveWallet(ctx, strings.TrimSpace(string(deviceShard)), deviceKey, strings.TrimSpace(string(authShard)))
	if err != nil {
		glog.Errorf("Failed to derive wallet: %v", err.Error())
		return subcommands.ExitFailure
	}
	fmt.Println(derived.Mnemonic)
	return subcommands.ExitSuccess
}

// recoverCmd handles CLI options for the recovery flow.
type recoverCmd struct {
	configFile string
	outDir     string
	showKey    bool
}

func (*recoverCmd) Name() string { return "recover" }
func (*recoverCmd) Synopsis() string {
	return "recovers the wallet secret and mints a fresh shard set"
}
func (*recoverCmd) Usage() string {
	return `Usage: shardkit recover [--config-file=<config_file>] [--out-dir=<dir>] [--show-key]

Decrypts the configured recovery shard with a key derived from the recovery
answer (prompted on stdin), combines it with the auth shard, re-splits the
secret, and writes a fresh device shard (sealed under the new device key)
and a fresh auth shard. The backend-held auth shard must be replaced with
the new one.

Flags:
`
}
func (r *recoverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configFile, "config-file", defaultConfigPath(), "Path to a shardkit YAML config file.")
	f.StringVar(&r.outDir, "out-dir", ".", "Directory to write fresh shard artifacts to.")
	f.BoolVar(&r.showKey, "show-key", false, "Also print the recovered mnemonic to stdout.")
}

func (r *recoverCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := readConfig(r.configFile)
	if err != nil {
		glog.Errorf("Failed to read config: %v", err.Error())
		return subcommands.ExitFailure
	}
	newDeviceKey, err := readKeyFile(cfg.NewDeviceKeyFile)
	if err != nil {
		glog.Errorf("Failed to read new device key: %v", err.Error())
		return subcommands.ExitFailure
	}
	recoveryShard, err := os.ReadFile(cfg.RecoveryShardFile)
	if err != nil {
		glog.Errorf("Failed to read recovery shard: %v", err.Error())
		return subcommands.ExitFailure
	}
	authShard, err := os.ReadFile(cfg.AuthShardFile)
	if err != nil {
		glog.Errorf("Failed to read auth shard: %v", err.Error())
		return subcommands.ExitFailure
	}
	recoveryKey, err := promptRecoveryAnswer(cfg)
	if err != nil {
		glog.Errorf("Failed to derive recovery key: %v", err.Error())
		return subcommands.ExitFailure
	}

	client := custody.NewClient(nil)
	recovered, err := client.RecoverWallet(ctx, strings.TrimSpace(string(recoveryShard)), recoveryKey, strings.TrimSpace(string(authShard)), newDeviceKey)
	if err != nil {
		glog.Errorf("Failed to recover wallet: %v", err.Error())
		return subcommands.ExitFailure
	}

	for _, artifact := range []struct {
		name string
		data string
	}{
		{name: deviceShardName, data: recovered.EncryptedDeviceShard},
		{name: authShardName, data: recovered.AuthShard},
	} {
		path, err := writeFile(r.outDir, artifact.name, []byte(artifact.data+"\n"))
		if err != nil {
			glog.Errorf("Failed to write %s: %v", artifact.name, err.Error())
			return subcommands.ExitFailure
		}
		fmt.Println("Wrote", path)
	}
	if r.showKey {
		fmt.Println(recovered.Mnemonic)
	}
	colour.Printf("^2Recovery complete; replace the backend auth shard with %s^R\n", filepath.Join(r.outDir, authShardName))
	return subcommands.ExitSuccess
}

// splitCmd handles CLI options for raw 2-of-3 splitting.
type splitCmd struct {
	outDir string
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a secret read from a file or stdin into three hex shards"
}
func (*splitCmd) Usage() string {
	return `Usage: shardkit split [--out-dir=<dir>] <secret_file>

Examples:
  Split a secret file:
    $ shardkit split secret.txt

  Split a secret from stdin:
    $ shardkit split - < secret.txt

Flags:
`
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.outDir, "out-dir", ".", "Directory to write shard files to.")
}

func (s *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected secret file)")
		return subcommands.ExitFailure
	}
	var secret []byte
	var err error
	if f.Arg(0) == "-" {
		secret, err = readAll(os.Stdin)
	} else {
		secret, err = os.ReadFile(f.Arg(0))
	}
	if err != nil {
		glog.Errorf("Failed to read secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	shardSet, err := shards.Split(strings.TrimRight(string(secret), "\n"))
	if err != nil {
		glog.Errorf("Failed to split secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	for i, name := range []string{"shard_device.hex", "shard_auth.hex", "shard_recovery.hex"} {
		path, err := writeFile(s.outDir, name, []byte(shardSet[i]+"\n"))
		if err != nil {
			glog.Errorf("Failed to write %s: %v", name, err.Error())
			return subcommands.ExitFailure
		}
		fmt.Println("Wrote", path)
	}
	return subcommands.ExitSuccess
}

// combineCmd handles CLI options for raw shard combination.
type combineCmd struct{}

func (*combineCmd) Name() string { return "combine" }
func (*combineCmd) Synopsis() string {
	return "combines two hex shard files and prints the secret"
}
func (*combineCmd) Usage() string {
	return `Usage: shardkit combine <shard_file> <shard_file>

Example:
  $ shardkit combine shard_device.hex shard_auth.hex
`
}
func (*combineCmd) SetFlags(_ *flag.FlagSet) {}

func (*combineCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected two shard files)")
		return subcommands.ExitFailure
	}
	a, err := os.ReadFile(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to read shard: %v", err.Error())
		return subcommands.ExitFailure
	}
	b, err := os.ReadFile(f.Arg(1))
	if err != nil {
		glog.Errorf("Failed to read shard: %v", err.Error())
		return subcommands.ExitFailure
	}
	secret, err := shards.Combine(strings.TrimSpace(string(a)), strings.TrimSpace(string(b)))
	if err != nil {
		glog.Errorf("Failed to combine shards: %v", err.Error())
		return subcommands.ExitFailure
	}
	fmt.Println(secret)
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version of shardkit" }
func (*versionCmd) Usage() string          { return "Usage: shardkit version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Printf("shardkit v%s\n", shardkitVersion)
	return subcommands.ExitSuccess
}

func readAll(f *os.File) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, scanner.Bytes()...)
	}
	return out, scanner.Err()
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&keygenCmd{}, "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&deriveCmd{}, "")
	subcommands.Register(&recoverCmd{}, "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&combineCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
