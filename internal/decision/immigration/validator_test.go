package immigration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kycengine/internal/domain"
)

var asOf = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestValidateImmigrationStatus(t *testing.T) {
	tests := []struct {
		name          string
		doc           domain.ImmigrationStatus
		code          string
		level         domain.FlagLevel
		isValid       bool
		statusValid   bool
		documentValid bool
		penalty       float64
	}{
		{
			name:    "FMM is never accepted",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationFMM, ExpiryDate: date(2024, 12, 1)},
			code:    CodeFMMNotAccepted,
			level:   domain.LevelCritical,
			isValid: false, statusValid: false, documentValid: true,
			penalty: 0.25,
		},
		{
			name:    "permanent without expiry issued recently",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidentePermanente, IssueDate: date(2019, 3, 14)},
			code:    CodePermanentValid,
			level:   domain.LevelInfo,
			isValid: true, statusValid: true, documentValid: true,
			penalty: 0,
		},
		{
			name:    "permanent without expiry issued long ago",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidentePermanente, IssueDate: date(2010, 3, 14)},
			code:    CodePermanentOldCard,
			level:   domain.LevelInfo,
			isValid: true, statusValid: true, documentValid: true,
			penalty: 0,
		},
		{
			name:    "permanent with past expiry keeps status",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidentePermanente, ExpiryDate: date(2023, 1, 15)},
			code:    CodePermanentCardExpired,
			level:   domain.LevelWarning,
			isValid: true, statusValid: true, documentValid: false,
			penalty: 0.05,
		},
		{
			name:    "permanent with future expiry",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidentePermanente, ExpiryDate: date(2027, 1, 15)},
			code:    CodePermanentValid,
			level:   domain.LevelInfo,
			isValid: true, statusValid: true, documentValid: true,
		},
		{
			name:    "FM2 is obsolete",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationFM2, ExpiryDate: date(2030, 1, 1)},
			code:    CodeObsoleteDocument,
			level:   domain.LevelCritical,
			penalty: 0.25,
		},
		{
			name:    "FM3 is obsolete",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationFM3},
			code:    CodeObsoleteDocument,
			level:   domain.LevelCritical,
			penalty: 0.25,
		},
		{
			name:    "temporary without expiry",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidenteTemporal},
			code:    CodeTemporaryMissingExpiry,
			level:   domain.LevelCritical,
			penalty: 0.25,
		},
		{
			name:    "temporary expired",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidenteTemporal, ExpiryDate: date(2024, 6, 29)},
			code:    CodeTemporaryExpired,
			level:   domain.LevelCritical,
			penalty: 0.25,
		},
		{
			name:    "temporary expiring within thirty days",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidenteTemporal, ExpiryDate: date(2024, 7, 30)},
			code:    CodeTemporaryExpiringSoon,
			level:   domain.LevelWarning,
			isValid: true, statusValid: true, documentValid: true,
			penalty: 0.05,
		},
		{
			name:    "temporary expiring today is still valid",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidenteTemporal, ExpiryDate: date(2024, 6, 30)},
			code:    CodeTemporaryExpiringSoon,
			level:   domain.LevelWarning,
			isValid: true, statusValid: true, documentValid: true,
			penalty: 0.05,
		},
		{
			name:    "temporary comfortably valid",
			doc:     domain.ImmigrationStatus{DocumentType: domain.ImmigrationResidenteTemporal, ExpiryDate: date(2025, 6, 30)},
			code:    CodeTemporaryValid,
			level:   domain.LevelInfo,
			isValid: true, statusValid: true, documentValid: true,
		},
		{
			name:    "unknown type",
			doc:     domain.ImmigrationStatus{DocumentType: "VISA_TRABAJO"},
			code:    CodeUnknownDocument,
			level:   domain.LevelCritical,
			penalty: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ValidateImmigrationStatus(tt.doc, asOf)
			assert.Equal(t, tt.code, o.Code)
			assert.Equal(t, tt.level, o.Level)
			assert.Equal(t, tt.isValid, o.IsValid, "isValid")
			assert.Equal(t, tt.statusValid, o.StatusValid, "statusValid")
			assert.Equal(t, tt.documentValid, o.DocumentValid, "documentValid")
			assert.Equal(t, tt.penalty, o.Penalty())
			assert.NotEmpty(t, o.Message)
		})
	}
}

func TestValidateNationalID(t *testing.T) {
	t.Run("valid credential", func(t *testing.T) {
		o := ValidateNationalID(domain.NationalID{Type: domain.NationalIDINE, IssueDate: date(2020, 5, 4), ExpiryDate: date(2030, 12, 31)}, asOf)
		assert.Equal(t, CodeNationalIDValid, o.Code)
		assert.True(t, o.Clean())
		assert.Equal(t, 0.0, o.Penalty())
	})

	t.Run("expired credential is a document-only problem", func(t *testing.T) {
		o := ValidateNationalID(domain.NationalID{Type: domain.NationalIDINE, ExpiryDate: date(2023, 12, 31)}, asOf)
		assert.Equal(t, CodeNationalIDExpired, o.Code)
		assert.Equal(t, domain.LevelCritical, o.Level)
		assert.True(t, o.StatusValid)
		assert.False(t, o.DocumentValid)
		assert.Equal(t, 0.10, o.Penalty())
	})

	t.Run("january first issue date warns", func(t *testing.T) {
		o := ValidateNationalID(domain.NationalID{IssueDate: date(2019, 1, 1), ExpiryDate: date(2029, 12, 31)}, asOf)
		assert.Equal(t, CodeNationalIDSuspiciousIssue, o.Code)
		assert.Equal(t, domain.LevelWarning, o.Level)
		assert.True(t, o.IsValid)
		assert.Equal(t, "INE", o.DocumentType)
	})

	t.Run("missing expiry warns", func(t *testing.T) {
		o := ValidateNationalID(domain.NationalID{Type: domain.NationalIDIFE}, asOf)
		assert.Equal(t, CodeNationalIDMissingExpiry, o.Code)
		assert.Equal(t, "IFE", o.DocumentType)
	})
}

func TestValidatePassport(t *testing.T) {
	t.Run("expired passport is a warning", func(t *testing.T) {
		o := ValidatePassport(domain.Passport{ExpiryDate: date(2024, 1, 1)}, asOf)
		assert.Equal(t, CodePassportExpired, o.Code)
		assert.Equal(t, domain.LevelWarning, o.Level)
		assert.False(t, o.IsValid)
		assert.Equal(t, 0.05, o.Penalty())
	})

	t.Run("valid passport", func(t *testing.T) {
		o := ValidatePassport(domain.Passport{ExpiryDate: date(2030, 1, 1)}, asOf)
		assert.Equal(t, CodePassportValid, o.Code)
		assert.True(t, o.Clean())
	})
}
