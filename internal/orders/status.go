package orders

type Status string

const (
	// PENDING: order dibuat, token Snap belum tentu dipakai user.
	StatusPending Status = "PENDING"
	// WAITING: gateway lapor transaksi pending (menunggu pembayaran).
	StatusWaiting Status = "WAITING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

// validNext: precedence PAID > FAILED > WAITING > PENDING.
// Transisi turun derajat (mis. FAILED setelah PAID) ditolak, bukan overwrite.
var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusWaiting: true, StatusPaid: true, StatusFailed: true},
	StatusWaiting: {StatusPaid: true, StatusFailed: true},
	StatusFailed:  {StatusPaid: true},
	StatusPaid:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// allowedFrom: daftar status asal yang boleh pindah ke `to`.
// Dipakai repo buat conditional UPDATE (compare-and-set).
func allowedFrom(to Status) []string {
	var out []string
	for from, nexts := range validNext {
		if nexts[to] {
			out = append(out, string(from))
		}
	}
	return out
}

// FromTransactionStatus memetakan vocabulary transaction_status Midtrans
// ke status internal. ok=false untuk vocabulary yang tidak dikenal.
func FromTransactionStatus(s string) (Status, bool) {
	switch s {
	case "settlement", "capture":
		return StatusPaid, true
	case "pending":
		return StatusWaiting, true
	case "expire", "cancel", "deny":
		return StatusFailed, true
	default:
		return "", false
	}
}
