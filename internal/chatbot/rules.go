package chatbot

// DefaultRules: FAQ portal. Keyword dalam lowercase; urutan menentukan
// prioritas (rule lebih spesifik ditaruh di atas).
var DefaultRules = []Rule{
	{
		Keywords: []string{"harga", "biaya", "tarif", "price"},
		Answer: "Program Community mulai dari Rp50.000 per sesi, Private Rp150.000, " +
			"dan Corporate Rp500.000. Detail lengkap ada di halaman program.",
	},
	{
		Keywords: []string{"bayar", "pembayaran", "transfer", "midtrans", "payment"},
		Answer: "Pembayaran diproses lewat Midtrans: bisa transfer bank, e-wallet, " +
			"atau kartu. Setelah checkout kamu akan diarahkan ke halaman pembayaran.",
	},
	{
		Keywords: []string{"daftar", "registrasi", "gabung", "join"},
		Answer: "Untuk mendaftar, pilih program di halaman utama lalu isi form " +
			"checkout dengan nama, email, dan nomor HP kamu.",
	},
	{
		Keywords: []string{"jadwal", "schedule", "jam", "kapan"},
		Answer: "Sesi Community berjalan tiap Sabtu pagi, Private dijadwalkan " +
			"fleksibel sesuai kesepakatan dengan mentor.",
	},
	{
		Keywords: []string{"mentor", "pengajar", "coach"},
		Answer: "Mentor kami praktisi aktif di industrinya masing-masing. Profil " +
			"lengkap bisa dilihat di halaman mentor.",
	},
	{
		Keywords: []string{"online", "offline", "lokasi", "tempat"},
		Answer:   "Semua sesi mentoring berjalan online via video call, jadi bisa diikuti dari mana saja.",
	},
	{
		Keywords:    []string{"refund", "batal", "cancel"},
		Answer:      "Untuk pembatalan atau refund, hubungi tim kami supaya bisa dibantu langsung ya.",
		ShowContact: true,
	},
}

// DefaultFallback dipakai kalau tidak ada keyword yang kena; tampilkan
// tombol kontak manusia.
var DefaultFallback = Reply{
	Answer:      "Maaf, aku belum bisa jawab pertanyaan itu. Coba hubungi tim kami langsung ya!",
	ShowContact: true,
}
