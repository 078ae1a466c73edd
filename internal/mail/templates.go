package mail

import (
	"bytes"
	"text/template"
)

const (
	SubjectBooking = "✅ WaterGuard Kit Booking Confirmed!"
	SubjectWelcome = "🎉 Welcome to WaterGuard!"
	SubjectReport  = "📊 WaterGuard daily report"
)

var bookingTmpl = template.Must(template.New("booking").Parse(`Hi {{.Name}},

Thanks for booking your Water Testing Kit with 💧 WaterGuard!

📍 Address:
{{.Address}}

📦 Your kit will reach your doorstep by: {{.Date}}

📘 The kit includes:
- pH Level Tester
- TDS Meter
- Turbidity Check
- Temperature Sensor
- Setup Manual with Step-by-Step Instructions

If you have any questions, feel free to chat with AquaBot or reach out to our team!

Stay safe & drink clean 🌊
— Team WaterGuard
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`Hi {{.Name}},

Thank you for signing up to 💧 WaterGuard — your smart partner for clean and safe water!

🚀 Features you now have access to:
- Check your water quality instantly
- Book doorstep testing kits
- Chat with AquaBot for water safety advice
- Get personalized insights & alerts

We’re excited to have you onboard!
Explore now: {{.SiteURL}}

Clean water. Clear life.
— Team WaterGuard
`))

// BookingData fills the booking confirmation.
type BookingData struct {
	Name    string
	Address string
	Date    string
}

// WelcomeData fills the signup welcome email.
type WelcomeData struct {
	Name    string
	SiteURL string
}

func BookingConfirmation(to string, d BookingData) (Message, error) {
	body, err := render(bookingTmpl, d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectBooking, Body: body}, nil
}

func Welcome(to string, d WelcomeData) (Message, error) {
	body, err := render(welcomeTmpl, d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectWelcome, Body: body}, nil
}

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
