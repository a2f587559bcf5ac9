package mailer

import (
	"fmt"
	"log"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"gopkg.in/gomail.v2"
)

// Mailer mengirim notifikasi email best-effort ke pemilik device.
// Gagal kirim cuma dicatat di log, tidak pernah menggagalkan settlement.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	users  *repository.UserRepository
}

// New mengembalikan nil kalau SMTP tidak dikonfigurasi; caller cukup
// cek nil sebelum memasang notifier.
func New(cfg *config.Config, users *repository.UserRepository) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
		users:  users,
	}
}

// TokenIssued mengirim struk token baru ke pemilik device.
// Secret token memang ikut dikirim: email inilah "struknya".
func (m *Mailer) TokenIssued(device model.Device, token model.Token) {
	owner, err := m.users.GetByID(device.UserID)
	if err != nil {
		log.Printf("mailer: pemilik device %d tidak ditemukan: %v", device.ID, err)
		return
	}

	body := fmt.Sprintf(
		"Token pulsa baru untuk perangkat %s (%s).\n\nToken: %s\nNominal: %s\n",
		device.Name, device.DeviceKey, token.Token, model.FromMinor(token.Amount).StringFixed(2))
	m.send(owner.Email, "Token Pulsa Baru", body)
}

// LowBalance implementasi settlement.Notifier.
func (m *Mailer) LowBalance(device model.Device, balance int64) {
	owner, err := m.users.GetByID(device.UserID)
	if err != nil {
		log.Printf("mailer: pemilik device %d tidak ditemukan: %v", device.ID, err)
		return
	}

	body := fmt.Sprintf(
		"Saldo perangkat %s (%s) tinggal %s. Segera isi ulang agar perangkat tidak berhenti.\n",
		device.Name, device.DeviceKey, model.FromMinor(balance).StringFixed(2))
	m.send(owner.Email, "Peringatan Saldo Rendah", body)
}

func (m *Mailer) send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("mailer: gagal kirim email ke %s: %v", to, err)
	}
}
