package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	aptos "github.com/aptos-labs/aptos-go-sdk"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/metrics"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/storage"
)

// ErrTransactionFailed is returned when a committed transaction aborted.
var ErrTransactionFailed = errors.New("transaction failed on chain")

// Stage is the last step a transaction reached.
type Stage string

const (
	StageBuild     Stage = "build"
	StageSign      Stage = "sign"
	StageSubmit    Stage = "submit"
	StageAwait     Stage = "await"
	StageConfirmed Stage = "confirmed"
)

// Chain is the subset of the chain client used to execute intents.
type Chain interface {
	BuildTransaction(ctx context.Context, sender aptos.AccountAddress, intent model.TransactionIntent) (*aptos.RawTransaction, error)
	SignTransaction(signer aptos.TransactionSigner, raw *aptos.RawTransaction) (*aptos.SignedTransaction, error)
	Submit(ctx context.Context, signed *aptos.SignedTransaction) (chain.TxHandle, error)
	AwaitConfirmation(ctx context.Context, handle chain.TxHandle) (chain.Confirmation, error)
}

// Identity signs transactions.
type Identity interface {
	Address() aptos.AccountAddress
	Signer() aptos.TransactionSigner
}

// Result is the outcome of one execution. Err is nil only when the
// transaction committed successfully.
type Result struct {
	Intent   model.TransactionIntent
	Sender   string
	Hash     string
	Stage    Stage
	Success  bool
	VMStatus string
	Version  uint64
	GasUsed  uint64
	Err      error
}

// OK reports whether the transaction committed successfully.
func (r Result) OK() bool {
	return r.Err == nil && r.Success
}

// Record converts the result into a journal entry.
func (r Result) Record(at time.Time) model.TxRecord {
	args := make([]string, 0, len(r.Intent.Args))
	for _, arg := range r.Intent.Args {
		args = append(args, fmt.Sprintf("%s:%s", arg.Kind, arg.Value))
	}
	rec := model.TxRecord{
		Hash:        r.Hash,
		Function:    r.Intent.Function.String(),
		TypeArgs:    r.Intent.TypeArgs,
		Args:        args,
		Sender:      r.Sender,
		Stage:       string(r.Stage),
		Success:     r.Success,
		VMStatus:    r.VMStatus,
		Version:     r.Version,
		SubmittedAt: at.UTC().Format(time.RFC3339Nano),
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// Executor runs build, sign, submit and await for an intent. Each step is
// attempted once.
type Executor struct {
	chain   Chain
	journal storage.Journal
	logger  *zap.Logger
	now     func() time.Time
}

func NewExecutor(chainClient Chain, journal storage.Journal, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{chain: chainClient, journal: journal, logger: logger, now: time.Now}
}

// Execute signs the intent with identity and waits for it to commit.
func (e *Executor) Execute(ctx context.Context, identity Identity, intent model.TransactionIntent) Result {
	start := e.now()
	sender := identity.Address()
	intent.Sender = sender.String()
	res := Result{Intent: intent, Sender: intent.Sender, Stage: StageBuild}

	logger := e.logger.With(
		zap.String("function", intent.Function.String()),
		zap.String("sender", res.Sender),
	)
	logger.Info("building transaction", zap.Stringer("intent", intent))

	res = e.run(ctx, identity, intent, res, logger)

	metrics.RecordTransaction(intent.Function.Name, string(res.Stage), res.OK())
	if res.OK() {
		logger.Info("transaction confirmed",
			zap.String("hash", res.Hash),
			zap.Uint64("version", res.Version),
			zap.Uint64("gas_used", res.GasUsed),
		)
	} else {
		logger.Error("transaction failed",
			zap.String("stage", string(res.Stage)),
			zap.String("hash", res.Hash),
			zap.String("vm_status", res.VMStatus),
			zap.Error(res.Err),
		)
	}

	if e.journal != nil {
		if err := e.journal.PutTxRecords(ctx, []model.TxRecord{res.Record(start)}); err != nil {
			logger.Warn("journal write failed", zap.Error(err))
		}
	}
	return res
}

func (e *Executor) run(ctx context.Context, identity Identity, intent model.TransactionIntent, res Result, logger *zap.Logger) Result {
	raw, err := e.chain.BuildTransaction(ctx, identity.Address(), intent)
	if err != nil {
		res.Err = fmt.Errorf("build: %w", err)
		return res
	}

	res.Stage = StageSign
	signed, err := e.chain.SignTransaction(identity.Signer(), raw)
	if err != nil {
		res.Err = fmt.Errorf("sign: %w", err)
		return res
	}

	res.Stage = StageSubmit
	handle, err := e.chain.Submit(ctx, signed)
	if err != nil {
		res.Err = fmt.Errorf("submit: %w", err)
		return res
	}
	res.Hash = handle.Hash
	logger.Info("transaction submitted, waiting for confirmation", zap.String("hash", handle.Hash))

	res.Stage = StageAwait
	awaitStart := e.now()
	conf, err := e.chain.AwaitConfirmation(ctx, handle)
	metrics.ObserveConfirmation(e.now().Sub(awaitStart))
	if err != nil {
		res.Err = fmt.Errorf("await: %w", err)
		return res
	}

	res.Stage = StageConfirmed
	res.Success = conf.Success
	res.VMStatus = conf.VMStatus
	res.Version = conf.Version
	res.GasUsed = conf.GasUsed
	if !conf.Success {
		res.Err = fmt.Errorf("%w: %s", ErrTransactionFailed, conf.VMStatus)
	}
	return res
}
