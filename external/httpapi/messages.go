package httpapi

const (
	messageDraftGenerated       = "Draf transaksi berhasil dibuat."
	messageTransactionConfirmed = "Transaksi berhasil disimpan."

	messageInvalidInput       = "Permintaan tidak valid."
	messageDraftInvalid       = "Draf transaksi tidak dapat dipahami. Silakan ulangi rekaman."
	messageStockConflict      = "Stok produk tidak mencukupi."
	messageExternalCapability = "Layanan suara atau AI sedang bermasalah. Silakan coba lagi."
	messageDataAccess         = "Database sedang tidak tersedia. Silakan coba lagi."
	messageInternalError      = "Terjadi kesalahan pada server."

	messageAudioMissing  = "File audio tidak ditemukan."
	messageAudioTooLarge = "Ukuran file audio terlalu besar."
	messageBadJSON       = "Format JSON tidak valid."
	messageBadMerchantID = "umkm_id harus berupa angka positif."
	messageUnhealthy     = "Layanan tidak sehat."
)
