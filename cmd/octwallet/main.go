// Package main provides the octwallet CLI tool for offline Octra wallet
// derivation and signing.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/octwallet"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/term"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	maxWidth = 72
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	language      string
	strengthBits  int
	fromAddress   string
	toAddress     string
	amountStr     string
	nonce         uint64
	transferMsg   string
	privateNonce  int64
	newBalanceStr string
	attachKey     bool
	verifyMessage string
	verifySig     string
	verifyPubKey  string

	rootCmd = &cobra.Command{
		Use:   "octwallet",
		Short: "Offline wallet tool for the Octra network",
		Long: `Offline wallet tool for the Octra network.

octwallet turns BIP39 seed phrases into Octra keys and addresses, and
signs transfer and balance payloads for the network's endpoints. Every
command works offline: input comes from arguments, stdin, or a no-echo
prompt, and results go to stdout as text or wire-ready JSON.

Private keys are never accepted as command arguments. Commands that
need one read a piped stdin line or ask on the terminal with echo off.

SECURITY TIP: Add a space before the command when secrets appear in the
arguments, to prevent them from being saved in your shell history. For
example:
    octwallet restore legal winner thank year wave sausage worth useful legal winner thank yellow
    ^ (note the leading space)
Most shells (bash, zsh) are configured to ignore commands that start
with a space. Check your HISTCONTROL or HIST_IGNORE_SPACE settings.`,
		Example: `  octwallet generate
  octwallet generate --strength 256 --language japanese
  octwallet restore legal winner thank year wave sausage worth useful legal winner thank yellow
  octwallet address -
  echo "$OCTRA_PRIVATE_KEY" | octwallet sign --to oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm --amount 1.5 --nonce 7
  octwallet verify --message '{"from":"oct..."}' --signature "base64" --pubkey "base64"`,
		SilenceUsage: true,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a new wallet from fresh entropy",
		Long: `Generate a new wallet from fresh entropy.

Prints the seed phrase, the Base64 key pair, the oct address, and the
raw derivation values (entropy, BIP39 seed, chain code) so the result
can be cross-checked against other tooling. Nothing is written to disk;
copy the phrase to safe storage before closing the terminal.`,
		Example: `  octwallet generate
  octwallet generate --strength 256
  octwallet generate --language spanish`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := setLanguage(language); err != nil {
				return err
			}
			w, err := octwallet.GenerateWallet(strengthBits)
			if err != nil {
				return fmt.Errorf("could not generate a wallet: %w", err)
			}
			defer w.Zeroize()
			return printWallet(w)
		},
	}

	restoreCmd = &cobra.Command{
		Use:   "restore [word ...]",
		Short: "Restore a wallet from its seed phrase",
		Long: `Restore a wallet from its BIP39 seed phrase.

The phrase can be passed as arguments, piped on stdin, or typed at a
no-echo prompt when no arguments are given. Word count and checksum are
validated before any key is derived.`,
		Example: `  octwallet restore legal winner thank year wave sausage worth useful legal winner thank yellow
  echo "legal winner thank year ..." | octwallet restore
  octwallet restore`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := setLanguage(language); err != nil {
				return err
			}
			phrase, err := readSeedPhrase(args)
			if err != nil {
				return err
			}
			w, err := octwallet.WalletFromMnemonic(phrase)
			if err != nil {
				return formatWalletError(err)
			}
			defer w.Zeroize()
			return printWallet(w)
		},
	}

	addressCmd = &cobra.Command{
		Use:   "address [private-key-base64|-]",
		Short: "Derive the oct address for a private key",
		Long: `Derive the oct address for a Base64 private key.

Pass "-" (or pipe stdin) to read the key without putting it in the
shell history, or pass no argument to get a no-echo prompt. Both the
32-byte seed form and the 64-byte expanded form are accepted.`,
		Example: `  echo "$OCTRA_PRIVATE_KEY" | octwallet address -
  octwallet address - < key.txt
  octwallet address`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			var key string
			var err error
			if len(args) > 0 && args[0] != "-" {
				key = args[0]
			} else {
				key, err = readPrivateKey(len(args) > 0)
				if err != nil {
					return err
				}
			}
			addr, err := octwallet.DeriveAddress(key)
			if err != nil {
				return formatWalletError(err)
			}
			fmt.Println(addr)
			return nil
		},
	}

	signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign an OCT transfer and print its wire payload",
		Long: `Sign an OCT transfer and print its wire payload.

The private key is read from a piped stdin line or a no-echo prompt,
never from arguments. The printed JSON is exactly what the network
expects in a POST body. The fee tier is chosen from the amount: "1"
below 1000 OCT, "3" at or above. An optional --message travels with the
payload but is not signed, so editing it later does not break the
signature.`,
		Example: `  echo "$OCTRA_PRIVATE_KEY" | octwallet sign --to oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm --amount 1.5 --nonce 7
  octwallet sign --to oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm --amount 1000 --nonce 8 --message "rent"`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("nonce") {
				return fmt.Errorf("missing --nonce: pass the account's current nonce plus one")
			}
			if !octwallet.ValidateAddress(toAddress) {
				return fmt.Errorf("invalid recipient address %q", toAddress)
			}
			amount, err := octwallet.ParseAmount(amountStr)
			if err != nil {
				return fmt.Errorf("could not parse --amount: %w", err)
			}
			w, err := loadWallet()
			if err != nil {
				return err
			}
			defer w.Zeroize()
			if fromAddress != "" && fromAddress != w.Address() {
				return fmt.Errorf("--from %s does not match the key's address %s", fromAddress, w.Address())
			}
			t, err := octwallet.NewTransfer(w.Address(), toAddress, amount, nonce)
			if err != nil {
				return fmt.Errorf("could not build the transfer: %w", err)
			}
			t.Message = transferMsg
			signed, err := w.SignTransfer(t)
			if err != nil {
				return fmt.Errorf("could not sign the transfer: %w", err)
			}
			return printPayload(signed)
		},
	}

	signPrivateCmd = &cobra.Command{
		Use:   "sign-private",
		Short: "Sign a private transfer of encrypted balance",
		Long: `Sign a private transfer of encrypted balance.

The network's private-transfer endpoint demands the sender's cleartext
private key in the payload as proof of possession. The key is never
part of the signed bytes and is omitted by default; pass --attach-key
to include it, and understand what that means first: whoever receives
the payload can spend the account.

The nonce defaults to the current epoch milliseconds, which is the
convention for this endpoint. Override it with --nonce only when
replaying a previously stamped payload.`,
		Example: `  echo "$OCTRA_PRIVATE_KEY" | octwallet sign-private --to oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm --amount 2
  echo "$OCTRA_PRIVATE_KEY" | octwallet sign-private --to oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm --amount 2 --attach-key`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !octwallet.ValidateAddress(toAddress) {
				return fmt.Errorf("invalid recipient address %q", toAddress)
			}
			amount, err := octwallet.ParseAmount(amountStr)
			if err != nil {
				return fmt.Errorf("could not parse --amount: %w", err)
			}
			w, err := loadWallet()
			if err != nil {
				return err
			}
			defer w.Zeroize()
			t := octwallet.NewPrivateTransfer(w.Address(), toAddress, amount)
			if cmd.Flags().Changed("nonce") {
				t.Nonce = privateNonce
			}
			signed, err := w.SignPrivateTransfer(t)
			if err != nil {
				return fmt.Errorf("could not sign the private transfer: %w", err)
			}
			if attachKey {
				signed.AttachOwnershipKey(w.PrivateKeyB64())
				warnAttachedKey()
			}
			return printPayload(signed)
		},
	}

	encryptBalanceCmd = &cobra.Command{
		Use:   "encrypt-balance",
		Short: "Sign a balance encryption change and build its envelope",
		Long: `Sign a balance encryption change and build its envelope.

The payload authorizes moving the account balance between its public
and encrypted forms: --amount is the delta being applied and
--new-balance the balance after it, both in OCT. The new balance is
sealed into a fresh envelope keyed by the account's private key. The
endpoint opens the envelope server-side, which is why it demands the
cleartext key; pass --attach-key to include it.`,
		Example: `  echo "$OCTRA_PRIVATE_KEY" | octwallet encrypt-balance --amount 1 --new-balance 4
  echo "$OCTRA_PRIVATE_KEY" | octwallet encrypt-balance --amount 1 --new-balance 4 --attach-key`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			amount, err := octwallet.ParseAmount(amountStr)
			if err != nil {
				return fmt.Errorf("could not parse --amount: %w", err)
			}
			newBalance, err := octwallet.ParseAmount(newBalanceStr)
			if err != nil {
				return fmt.Errorf("could not parse --new-balance: %w", err)
			}
			w, err := loadWallet()
			if err != nil {
				return err
			}
			defer w.Zeroize()
			b := octwallet.NewBalanceCrypto(w.Address(), amount, newBalance.Micro())
			signed, err := w.SignBalanceCrypto(b)
			if err != nil {
				return fmt.Errorf("could not sign the balance change: %w", err)
			}
			if attachKey {
				signed.AttachOwnershipKey(w.PrivateKeyB64())
				warnAttachedKey()
			}
			return printPayload(signed)
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a detached signature",
		Long: `Verify a detached Ed25519 signature.

The message must be the exact bytes that were signed. The command exits
non-zero when the signature does not verify, so it can gate scripts.`,
		Example:      `  octwallet verify --message '{"from":"oct..."}' --signature "base64" --pubkey "base64"`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ok, err := octwallet.VerifySignature([]byte(verifyMessage), verifySig, verifyPubKey)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the signature does not verify")
			}
			fmt.Println("signature valid")
			return nil
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025 complex (complex@ft.hn)\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for octwallet.

To load completions:

Bash:
  $ source <(octwallet completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ octwallet completion bash > /etc/bash_completion.d/octwallet
  # macOS:
  $ octwallet completion bash > $(brew --prefix)/etc/bash_completion.d/octwallet

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ octwallet completion zsh > "${fpath[1]}/_octwallet"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ octwallet completion fish | source

  # To load completions for each session, execute once:
  $ octwallet completion fish > ~/.config/fish/completions/octwallet.fish

PowerShell:
  PS> octwallet completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> octwallet completion powershell > octwallet.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "en", "Language of the seed phrase word list")

	generateCmd.Flags().IntVar(&strengthBits, "strength", 128, "Entropy strength in bits: 128, 160, 192, 224, or 256")

	signCmd.Flags().StringVar(&fromAddress, "from", "", "Sender address, checked against the key when set")
	signCmd.Flags().StringVar(&toAddress, "to", "", "Recipient address")
	signCmd.Flags().StringVar(&amountStr, "amount", "", "Amount to send, in OCT")
	signCmd.Flags().Uint64Var(&nonce, "nonce", 0, "Transaction nonce, the account's current nonce plus one")
	signCmd.Flags().StringVar(&transferMsg, "message", "", "Optional message carried with the transfer, never signed")

	signPrivateCmd.Flags().StringVar(&toAddress, "to", "", "Recipient address")
	signPrivateCmd.Flags().StringVar(&amountStr, "amount", "", "Amount to send, in OCT")
	signPrivateCmd.Flags().Int64Var(&privateNonce, "nonce", 0, "Nonce override, defaults to the current epoch milliseconds")
	signPrivateCmd.Flags().BoolVar(&attachKey, "attach-key", false, "Attach the cleartext private key the endpoint requires")

	encryptBalanceCmd.Flags().StringVar(&amountStr, "amount", "", "Amount being applied, in OCT")
	encryptBalanceCmd.Flags().StringVar(&newBalanceStr, "new-balance", "", "Balance after the change, in OCT")
	encryptBalanceCmd.Flags().BoolVar(&attachKey, "attach-key", false, "Attach the cleartext private key the endpoint requires")

	verifyCmd.Flags().StringVarP(&verifyMessage, "message", "m", "", "Exact message bytes that were signed")
	verifyCmd.Flags().StringVarP(&verifySig, "signature", "s", "", "Base64 signature")
	verifyCmd.Flags().StringVarP(&verifyPubKey, "pubkey", "p", "", "Base64 public key of the signer")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(signPrivateCmd)
	rootCmd.AddCommand(encryptBalanceCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printWallet prints the full wallet panel: phrase, address, keys, raw
// derivation values, and the result of the signing self-test.
func printWallet(w *octwallet.Wallet) error {
	st, err := w.SelfTest()
	if err != nil {
		return err
	}
	if !st.Valid {
		return fmt.Errorf("the derived key failed its signing self-test")
	}

	fmt.Printf("[%d word seed phrase]\n", len(strings.Fields(w.Mnemonic())))
	fmt.Println()
	fmt.Println(w.Mnemonic())
	fmt.Println()

	fmt.Printf("[octra address]\n")
	fmt.Println()
	fmt.Println(w.Address())
	fmt.Println()

	fmt.Printf("[keys]\n")
	fmt.Println()
	fmt.Printf("%s (private key, base64)\n", w.PrivateKeyB64())
	fmt.Printf("%s (public key, base64)\n", w.PublicKeyB64())
	fmt.Println()

	fmt.Printf("[derivation diagnostics]\n")
	fmt.Println()
	fmt.Printf("%s (entropy)\n", w.EntropyHex())
	fmt.Printf("%s (bip39 seed)\n", w.SeedHex())
	fmt.Printf("%s (chain code, diagnostic only)\n", w.ChainCodeHex())
	fmt.Printf("%s (public key, hex)\n", w.PublicKeyHex())
	fmt.Println()

	fmt.Printf("[signature self-test]\n")
	fmt.Println()
	fmt.Println("passed")

	return nil
}

// loadWallet reads the private key from stdin or a no-echo prompt and logs
// in with it.
func loadWallet() (*octwallet.Wallet, error) {
	key, err := readPrivateKey(false)
	if err != nil {
		return nil, err
	}
	w, err := octwallet.WalletFromPrivateKey(key)
	if err != nil {
		return nil, formatWalletError(err)
	}
	return w, nil
}

// readPrivateKey reads a Base64 private key from piped stdin when one is
// present, otherwise from a no-echo prompt. forceStdin skips the prompt and
// reads stdin even when it is not a pipe, for "-" arguments and redirects.
func readPrivateKey(forceStdin bool) (string, error) {
	if forceStdin {
		return readLine(os.Stdin)
	}
	if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) != 0 {
		return readLine(os.Stdin)
	}
	return askSecret("Enter the private key (base64): ")
}

// readSeedPhrase joins argument words into a phrase, or falls back to piped
// stdin, then to a no-echo prompt.
func readSeedPhrase(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) != 0 {
		return readLine(os.Stdin)
	}
	return askSecret("Enter the seed phrase: ")
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	return "", fmt.Errorf("could not read stdin: empty input")
}

func askSecret(msg string) (string, error) {
	defer fmt.Fprintf(os.Stderr, "\n")
	pass, err := readPassword(msg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pass)), nil
}

// printPayload prints a signed payload as the compact JSON the network
// expects in a POST body.
func printPayload(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode the payload: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func warnAttachedKey() {
	fmt.Fprintln(os.Stderr, "warning: the payload carries the cleartext private key; whoever receives it controls the account")
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// formatWalletError shows a key or phrase validation error in the styled
// error block when stdout is a terminal, and returns the error unchanged so
// the command exits with a non-zero code.
func formatWalletError(err error) error {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		b := strings.Builder{}
		w := getWidth(maxWidth)

		b.WriteRune('\n')
		renderBlock(&b, errorStyle, w, err.Error())
		b.WriteRune('\n')

		fmt.Print(b.String())
	}
	return err
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

// setLanguage sets the language of the big39 mnemonic seed.
func setLanguage(language string) error {
	list := getWordlist(language)
	if list == nil {
		return fmt.Errorf("this language is not supported")
	}
	bip39.SetWordList(list)
	return nil
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var wordLists = map[lang.Tag][]string{
	lang.Chinese:              wordlists.ChineseSimplified,
	lang.SimplifiedChinese:    wordlists.ChineseSimplified,
	lang.TraditionalChinese:   wordlists.ChineseTraditional,
	lang.Czech:                wordlists.Czech,
	lang.AmericanEnglish:      wordlists.English,
	lang.BritishEnglish:       wordlists.English,
	lang.English:              wordlists.English,
	lang.French:               wordlists.French,
	lang.Italian:              wordlists.Italian,
	lang.Japanese:             wordlists.Japanese,
	lang.Korean:               wordlists.Korean,
	lang.Spanish:              wordlists.Spanish,
	lang.EuropeanSpanish:      wordlists.Spanish,
	lang.LatinAmericanSpanish: wordlists.Spanish,
}

func getWordlist(language string) []string {
	language = sanitizeLang(language)
	tag := lang.Make(language)
	en := display.English.Languages() // default language name matcher
	for t := range wordLists {
		if sanitizeLang(en.Name(t)) == language {
			tag = t
			break
		}
	}
	if tag == lang.Und { // Unknown language
		return nil
	}
	base, _ := tag.Base()
	btag := lang.MustParse(base.String())
	wl := wordLists[tag]
	if wl == nil {
		return wordLists[btag]
	}
	return wl
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read passphrase: %w", err)
	}
	return pass, nil
}
