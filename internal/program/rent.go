package program

// Solana rent parameters. The rent-exempt minimum doubles as the
// protocol-minimum reserve: every account is created funded at exactly this
// amount, and withdrawals may never take the balance below it.
const (
	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionThreshold     = 2
)

// MinimumBalance returns the non-withdrawable reserve for an account with the
// given data length.
func MinimumBalance(dataLen int) uint64 {
	return uint64(accountStorageOverhead+dataLen) * lamportsPerByteYear * exemptionThreshold
}
