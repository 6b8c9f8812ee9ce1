package commands

import (
	"fmt"
	"time"

	"biblio-api/internal/usecase/shared"
)

// User-facing texts mirror the tone of the school library frontend (pt-BR).
// Dates render as dd/mm/yyyy.

const mailSignature = "\n\nAtenciosamente,\nBiblioteca Bráulio Franco"

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func welcomeMessage(name string) string {
	return fmt.Sprintf("Bem-vindo à Biblioteca Bráulio Franco, %s! Explore nosso catálogo de livros.", name)
}

func borrowMessage(title string, due time.Time) string {
	return fmt.Sprintf("Empréstimo confirmado: %q. Devolva até %s.", title, formatDate(due))
}

func borrowEmail(to, userName, title string, due time.Time) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "Empréstimo confirmado",
		Body: fmt.Sprintf("Olá %s,\n\nSeu empréstimo de %q foi confirmado!\n\nData de devolução: %s\n\nBoa leitura!%s",
			userName, title, formatDate(due), mailSignature),
	}
}

func returnMessage(title string, daysLate int) string {
	if daysLate > 0 {
		return fmt.Sprintf("%q devolvido com %d dia(s) de atraso.", title, daysLate)
	}
	return fmt.Sprintf("%q devolvido no prazo. Obrigado!", title)
}

func returnEmail(to, userName, title string, daysLate int) shared.Email {
	detail := "Obrigado por devolver no prazo!"
	if daysLate > 0 {
		detail = fmt.Sprintf("Atenção: O livro foi devolvido com %d dia(s) de atraso.", daysLate)
	}
	return shared.Email{
		To:      to,
		Subject: "Devolução confirmada",
		Body: fmt.Sprintf("Olá %s,\n\nSua devolução de %q foi confirmada!\n\n%s%s",
			userName, title, detail, mailSignature),
	}
}

func renewMessage(title string, due time.Time) string {
	return fmt.Sprintf("Empréstimo de %q renovado. Nova data: %s.", title, formatDate(due))
}

func renewEmail(to, userName, title string, due time.Time) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "Renovação confirmada",
		Body: fmt.Sprintf("Olá %s,\n\nSeu empréstimo de %q foi renovado com sucesso!\n\nNova data de devolução: %s%s",
			userName, title, formatDate(due), mailSignature),
	}
}

func reserveMessage(title string) string {
	return fmt.Sprintf("Reserva de %q registrada. Você será notificado quando estiver disponível.", title)
}

func reserveEmail(to, userName, title string) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "Reserva confirmada",
		Body: fmt.Sprintf("Olá %s,\n\nSua reserva de %q foi registrada com sucesso!\n\nVocê será notificado quando o livro estiver disponível.%s",
			userName, title, mailSignature),
	}
}

func cancelReservationMessage(title string) string {
	return fmt.Sprintf("Reserva de %q cancelada.", title)
}

func reservationFulfilledMessage(title string) string {
	return fmt.Sprintf("Sua reserva de %q está disponível!", title)
}

func reservationReadyMessage(title string) string {
	return fmt.Sprintf("Sua reserva de %q está disponível! Empreste agora.", title)
}

func reservationReadyEmail(to, userName, title string) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "Reserva disponível",
		Body: fmt.Sprintf("Olá %s,\n\nSua reserva de %q está disponível para empréstimo!\n\nVisite a biblioteca para retirar seu livro.%s",
			userName, title, mailSignature),
	}
}

func dueSoonMessage(title string, due time.Time) string {
	return fmt.Sprintf("%q vence em 2 dias! Devolva até %s.", title, formatDate(due))
}

func dueSoonEmail(to, userName, title string, due time.Time) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "Lembrete: Livro vence em breve",
		Body: fmt.Sprintf("Olá %s,\n\nSeu empréstimo de %q vence em 2 dias (%s).\n\nPor favor, devolva o livro ou renove o empréstimo.%s",
			userName, title, formatDate(due), mailSignature),
	}
}

func overdueMessage(title string, daysLate int) string {
	return fmt.Sprintf("%q está atrasado há %d dia(s)! Devolva urgente.", title, daysLate)
}

func overdueEmail(to, userName, title string, daysLate int) shared.Email {
	return shared.Email{
		To:      to,
		Subject: "URGENTE: Livro atrasado",
		Body: fmt.Sprintf("Olá %s,\n\nSeu empréstimo de %q está atrasado há %d dia(s).\n\nPor favor, devolva o livro o mais rápido possível.%s",
			userName, title, daysLate, mailSignature),
	}
}
