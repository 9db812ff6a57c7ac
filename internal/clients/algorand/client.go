// Package algorand provides a ledger client for snapshot attestation
// on the Algorand blockchain. A snapshot is recorded as a 0-ALGO
// payment to self with the digest and metadata in the note field.
package algorand

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/transaction"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

const (
	DefaultNetwork = "TestNet"
	// Confirmation wait in rounds, matching the node's ~3s round time.
	confirmationRounds = 4
)

// Client implements the LedgerClient interface
type Client struct {
	algod   *algod.Client
	sk      ed25519.PrivateKey
	address string
	network string
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNetwork sets the network label used in responses
func WithNetwork(network string) ClientOption {
	return func(c *Client) {
		if network != "" {
			c.network = network
		}
	}
}

// NewClient creates a new Algorand ledger client. An empty mnemonic is
// allowed: the client reports itself unconfigured and callers fall
// back to simulation.
func NewClient(algodURL, algodToken, mnemonicPhrase string, opts ...ClientOption) (*Client, error) {
	algodClient, err := algod.MakeClient(algodURL, algodToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create algod client: %w", err)
	}

	c := &Client{
		algod:   algodClient,
		network: DefaultNetwork,
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if mnemonicPhrase != "" {
		sk, err := mnemonic.ToPrivateKey(mnemonicPhrase)
		if err != nil {
			return nil, fmt.Errorf("invalid algorand mnemonic: %w", err)
		}
		account, err := crypto.AccountFromPrivateKey(sk)
		if err != nil {
			return nil, fmt.Errorf("failed to derive algorand account: %w", err)
		}
		c.sk = sk
		c.address = account.Address.String()
	}

	return c, nil
}

// Configured reports whether signing credentials are available.
func (c *Client) Configured() bool {
	return c.sk != nil && c.address != ""
}

// SubmitHash records the digest and note metadata on the ledger as a
// 0-ALGO self-payment and waits for confirmation.
func (c *Client) SubmitHash(ctx context.Context, digest string, note models.LedgerNote) (*models.LedgerResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("algorand signing credentials not configured")
	}

	sp, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggested params: %w", err)
	}

	note.SnapshotHash = digest
	noteData, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}

	txn, err := transaction.MakePaymentTxn(c.address, c.address, 0, noteData, "", sp)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	txid, stx, err := crypto.SignTransaction(c.sk, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if _, err := c.algod.SendRawTransaction(stx).Do(ctx); err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}

	if _, err := transaction.WaitForConfirmation(c.algod, txid, confirmationRounds, ctx); err != nil {
		return nil, fmt.Errorf("transaction not confirmed: %w", err)
	}

	c.logger.Info().
		Str("txid", txid).
		Str("network", c.network).
		Msg("Snapshot digest submitted to ledger")

	return &models.LedgerResult{
		Status:       models.LedgerStatusSuccess,
		TxID:         txid,
		ExplorerLink: fmt.Sprintf("https://testnet.algoexplorer.io/tx/%s", txid),
		Network:      c.network,
		Fee:          float64(sp.Fee) / 1_000_000, // microAlgos to ALGO
		Message:      "Portfolio snapshot successfully submitted to Algorand blockchain",
	}, nil
}

// Ensure Client implements LedgerClient
var _ interfaces.LedgerClient = (*Client)(nil)
