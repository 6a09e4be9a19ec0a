package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

const minJournalLines = 2

// entryCheck inspects one aspect of an entry and reports every failure it finds.
type entryCheck func(ctx context.Context, in *checkInput) ([]apperrors.ValidationFailure, error)

type checkInput struct {
	entryDate time.Time
	lines     []domain.JournalLine
	accounts  map[string]domain.Account
}

// entryValidator runs the fixed, ordered list of entry checks and collects all failures
// into a single validation error.
type entryValidator struct {
	accounts portsrepo.ChartOfAccountsReader
}

func newEntryValidator(accounts portsrepo.ChartOfAccountsReader) entryValidator {
	return entryValidator{accounts: accounts}
}

// validate returns the referenced accounts keyed by id when the entry is valid.
func (v entryValidator) validate(ctx context.Context, entryDate time.Time, lines []domain.JournalLine) (map[string]domain.Account, error) {
	checks := []entryCheck{
		checkEntryDate,
		checkLineCount,
		checkLineAmounts,
		checkBalance,
		v.checkAccounts,
	}

	in := &checkInput{entryDate: entryDate, lines: lines}
	if err := runChecks(ctx, in, checks); err != nil {
		return nil, err
	}
	return in.accounts, nil
}

// validateReversal checks the structure of a reversing entry only. The accounts were
// accepted when the original posted and may since have been deactivated or removed.
func validateReversal(ctx context.Context, entryDate time.Time, lines []domain.JournalLine) error {
	checks := []entryCheck{
		checkEntryDate,
		checkLineCount,
		checkLineAmounts,
		checkBalance,
	}
	return runChecks(ctx, &checkInput{entryDate: entryDate, lines: lines}, checks)
}

func runChecks(ctx context.Context, in *checkInput, checks []entryCheck) error {
	var failures []apperrors.ValidationFailure
	for _, check := range checks {
		found, err := check(ctx, in)
		if err != nil {
			return err
		}
		failures = append(failures, found...)
	}
	if len(failures) > 0 {
		return apperrors.NewValidation(failures...)
	}
	return nil
}

func checkEntryDate(_ context.Context, in *checkInput) ([]apperrors.ValidationFailure, error) {
	if in.entryDate.IsZero() {
		return []apperrors.ValidationFailure{{
			Code:    apperrors.CodeEntryDateRequired,
			Field:   "entryDate",
			Message: "entry date is required",
		}}, nil
	}
	return nil, nil
}

func checkLineCount(_ context.Context, in *checkInput) ([]apperrors.ValidationFailure, error) {
	if len(in.lines) < minJournalLines {
		return []apperrors.ValidationFailure{{
			Code:    apperrors.CodeInvalidLineCount,
			Field:   "lines",
			Message: fmt.Sprintf("entry must have at least %d lines, got %d", minJournalLines, len(in.lines)),
		}}, nil
	}
	return nil, nil
}

func checkLineAmounts(_ context.Context, in *checkInput) ([]apperrors.ValidationFailure, error) {
	var failures []apperrors.ValidationFailure
	for i, line := range in.lines {
		field := fmt.Sprintf("lines[%d]", i)
		var msg string
		switch {
		case line.Debit.IsNegative() || line.Credit.IsNegative():
			msg = "amounts must not be negative"
		case line.Debit.IsPositive() && line.Credit.IsPositive():
			msg = "a line cannot carry both a debit and a credit"
		case line.Debit.IsZero() && line.Credit.IsZero():
			msg = "either debit or credit must have an amount"
		default:
			continue
		}
		failures = append(failures, apperrors.ValidationFailure{
			Code:    apperrors.CodeInvalidLineAmount,
			Field:   field,
			Message: fmt.Sprintf("line %d: %s", lineNumber(i, line), msg),
		})
	}
	return failures, nil
}

func checkBalance(_ context.Context, in *checkInput) ([]apperrors.ValidationFailure, error) {
	debits, credits := domain.SumLines(in.lines)
	if debits.Equal(credits) {
		return nil, nil
	}
	return []apperrors.ValidationFailure{{
		Code:    apperrors.CodeUnbalancedEntry,
		Field:   "lines",
		Message: fmt.Sprintf("entry is not balanced: debits %s ≠ credits %s", debits.StringFixed(2), credits.StringFixed(2)),
	}}, nil
}

func (v entryValidator) checkAccounts(ctx context.Context, in *checkInput) ([]apperrors.ValidationFailure, error) {
	ids := domain.JournalEntry{Lines: in.lines}.AccountIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	accounts, err := v.accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load accounts for validation: %w", err)
	}
	in.accounts = accounts

	var failures []apperrors.ValidationFailure
	for i, line := range in.lines {
		account, ok := accounts[line.AccountID]
		var msg string
		switch {
		case line.AccountID == "":
			msg = "account is required"
		case !ok:
			msg = fmt.Sprintf("account %s does not exist", line.AccountID)
		case !account.IsActive:
			msg = fmt.Sprintf("account %s (%s) is inactive", account.Code, line.AccountID)
		default:
			continue
		}
		failures = append(failures, apperrors.ValidationFailure{
			Code:    apperrors.CodeUnknownAccount,
			Field:   fmt.Sprintf("lines[%d].accountID", i),
			Message: fmt.Sprintf("line %d: %s", lineNumber(i, line), msg),
		})
	}
	return failures, nil
}

func lineNumber(i int, line domain.JournalLine) int {
	if line.LineNo > 0 {
		return line.LineNo
	}
	return i + 1
}
