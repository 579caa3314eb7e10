// Package poa judges whether the customer's proof of address is acceptable,
// including bills issued to third parties.
package poa

import (
	"fmt"
	"slices"
	"time"

	"kycengine/internal/decision/address"
	"kycengine/internal/decision/entity"
	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// NameMatchThreshold is the token overlap above which two names match.
const NameMatchThreshold = 0.7

// Source is the kind of document that served as proof of address.
type Source string

const (
	SourceNone          Source = "none"
	SourceBankStatement Source = "bank_statement"
	SourceUtilityBill   Source = "utility_bill"
)

// ThirdParty classifies who a utility bill was issued to when it is not
// the customer.
type ThirdParty string

const (
	ThirdPartyNone      ThirdParty = ""
	ThirdPartyCorporate ThirdParty = "corporate_third_party"
	ThirdPartyFamily    ThirdParty = "family"
	ThirdPartyLandlord  ThirdParty = "landlord"
)

// Flag codes.
const (
	CodeThirdPartyCorporate = "POA_THIRD_PARTY_CORPORATE"
	CodeThirdPartyFamily    = "POA_THIRD_PARTY_FAMILY"
	CodeThirdPartyLandlord  = "POA_THIRD_PARTY_LANDLORD"
	CodeAddressMatchFiscal  = "POA_ADDRESS_MATCHES_FISCAL"
	CodeMissing             = "POA_MISSING"
)

// Input is what the validator needs from the profile.
type Input struct {
	EntityType    domain.EntityType
	CustomerName  string
	FiscalAddress *domain.Address
	UtilityBills  []domain.AddressEvidence
	BankAccounts  []domain.BankAccount
	// DemoMode selects the statement-header name on bank accounts.
	DemoMode bool
}

// Result is the judgement on the proof of address.
type Result struct {
	Acceptable           bool
	Source               Source
	ThirdParty           ThirdParty
	AddressMatchesFiscal bool
	Penalty              float64
	Documents            []string
	DocumentDate         *time.Time
	// Address is the address on the selected document.
	Address *domain.Address
	Flags   []domain.ValidationFlag
}

// Validate tries, in order: a bank statement in the customer's name, a
// utility bill in the customer's name, and a third-party utility bill.
func Validate(in Input) Result {
	if acct, ok := matchingStatement(in); ok {
		return Result{
			Acceptable:   true,
			Source:       SourceBankStatement,
			Documents:    kstrings.DedupeAndTrim([]string{acct.SourceDocument}),
			DocumentDate: acct.StatementDate,
			Address:      acct.Address,
		}
	}

	bills := byRecency(in.UtilityBills)
	for _, bill := range bills {
		if namesMatch(in, bill.HolderName) {
			return Result{
				Acceptable:   true,
				Source:       SourceUtilityBill,
				Documents:    kstrings.DedupeAndTrim([]string{bill.SourceDocument}),
				DocumentDate: bill.IssueDate,
				Address:      bill.Address,
			}
		}
	}

	if len(bills) == 0 {
		return missing(in)
	}
	return thirdParty(in, bills[0])
}

func thirdParty(in Input, bill domain.AddressEvidence) Result {
	docs := kstrings.DedupeAndTrim([]string{bill.SourceDocument})
	res := Result{
		Source:               SourceUtilityBill,
		Documents:            docs,
		DocumentDate:         bill.IssueDate,
		Address:              bill.Address,
		AddressMatchesFiscal: address.Equivalent(bill.Address, in.FiscalAddress),
	}

	if !in.EntityType.IsPersonaFisica() {
		res.ThirdParty = ThirdPartyCorporate
		res.Penalty = 0.25
		if res.AddressMatchesFiscal {
			res.Penalty = 0.15
		}
		res.Flags = append(res.Flags, domain.ValidationFlag{
			Code:           CodeThirdPartyCorporate,
			Level:          domain.LevelCritical,
			Message:        fmt.Sprintf("Proof of address is issued to %q, not to the company; corporate proof of address must be in the company's name", bill.HolderName),
			ActionRequired: "Request a utility bill or bank statement issued to the company",
			SupportingDocs: docs,
			Penalty:        res.Penalty,
		})
		if res.AddressMatchesFiscal {
			res.Flags = append(res.Flags, domain.ValidationFlag{
				Code:           CodeAddressMatchFiscal,
				Level:          domain.LevelInfo,
				Message:        "The third-party bill's address matches the fiscal address",
				SupportingDocs: docs,
			})
		}
		return res
	}

	if ShareSurname(in.CustomerName, bill.HolderName) {
		res.ThirdParty = ThirdPartyFamily
		res.Acceptable = true
		res.Penalty = 0.05
		level := domain.LevelWarning
		if res.AddressMatchesFiscal {
			res.Penalty = 0
			level = domain.LevelInfo
		}
		res.Flags = append(res.Flags, domain.ValidationFlag{
			Code:           CodeThirdPartyFamily,
			Level:          level,
			Message:        fmt.Sprintf("Proof of address is issued to %q, who shares a surname with the customer", bill.HolderName),
			ActionRequired: "Confirm the family relationship",
			SupportingDocs: docs,
			Penalty:        res.Penalty,
		})
		return res
	}

	res.ThirdParty = ThirdPartyLandlord
	res.Acceptable = res.AddressMatchesFiscal
	res.Penalty = 0.10
	if res.AddressMatchesFiscal {
		res.Penalty = 0.05
	}
	res.Flags = append(res.Flags, domain.ValidationFlag{
		Code:           CodeThirdPartyLandlord,
		Level:          domain.LevelWarning,
		Message:        fmt.Sprintf("Proof of address is issued to %q, presumably the landlord", bill.HolderName),
		ActionRequired: "Request the lease agreement",
		SupportingDocs: docs,
		Penalty:        res.Penalty,
	})
	return res
}

// missing is the verdict when no document proves the address. A statement
// in the customer's name without an address still shows a banking
// relationship, which softens the finding to a warning.
func missing(in Input) Result {
	res := Result{Source: SourceNone}
	flag := domain.ValidationFlag{
		Code:           CodeMissing,
		ActionRequired: "Request a utility bill or bank statement no older than three months",
	}
	if own := ownStatements(in); len(own) > 0 {
		res.Penalty = 0.10
		flag.Level = domain.LevelWarning
		flag.Message = "No proof of address; the customer's bank statements carry no address"
		for _, acct := range own {
			flag.SupportingDocs = append(flag.SupportingDocs, acct.SourceDocument)
		}
		flag.SupportingDocs = kstrings.DedupeAndTrim(flag.SupportingDocs)
	} else {
		res.Penalty = 0.20
		flag.Level = domain.LevelCritical
		flag.Message = "No proof of address in the customer's name was provided"
	}
	flag.Penalty = res.Penalty
	res.Flags = []domain.ValidationFlag{flag}
	return res
}

// ownStatements returns the bank statements issued in the customer's name.
func ownStatements(in Input) []domain.BankAccount {
	var out []domain.BankAccount
	for _, acct := range in.BankAccounts {
		if namesMatch(in, acct.IdentityName(in.DemoMode)) {
			out = append(out, acct)
		}
	}
	return out
}

// matchingStatement picks the newest statement in the customer's name that
// carries an address. A statement without one cannot prove an address.
func matchingStatement(in Input) (domain.BankAccount, bool) {
	var candidates []domain.BankAccount
	for _, acct := range ownStatements(in) {
		if !acct.Address.IsZero() {
			candidates = append(candidates, acct)
		}
	}
	if len(candidates) == 0 {
		return domain.BankAccount{}, false
	}
	slices.SortStableFunc(candidates, func(a, b domain.BankAccount) int {
		return compareDatesDesc(a.StatementDate, b.StatementDate)
	})
	return candidates[0], true
}

func namesMatch(in Input, holder string) bool {
	if kstrings.NamesMatch(in.CustomerName, holder, NameMatchThreshold) {
		return true
	}
	return in.EntityType == domain.EntityPersonaMoral && entity.CompanyNamesMatch(in.CustomerName, holder)
}

func byRecency(bills []domain.AddressEvidence) []domain.AddressEvidence {
	out := slices.Clone(bills)
	slices.SortStableFunc(out, func(a, b domain.AddressEvidence) int {
		return compareDatesDesc(a.IssueDate, b.IssueDate)
	})
	return out
}

// compareDatesDesc orders newer dates first and missing dates last.
func compareDatesDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}

// FromProfile builds the validator input for p. The fiscal address is the
// resolved one when present, otherwise the constancia's.
func FromProfile(p *domain.Profile, entityType domain.EntityType, demoMode bool) Input {
	in := Input{
		EntityType:    entityType,
		CustomerName:  p.CustomerName(),
		FiscalAddress: p.CurrentFiscalAddress,
		UtilityBills:  p.AddressEvidence,
		BankAccounts:  p.BankAccounts,
		DemoMode:      demoMode,
	}
	if in.FiscalAddress.IsZero() && p.CompanyTaxProfile != nil {
		in.FiscalAddress = p.CompanyTaxProfile.FiscalAddress
	}
	return in
}
