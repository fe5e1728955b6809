// path: mailer/template.go
package mailer

// Fixed fire-alert notice sent to every registered resident.
const (
	FireAlertSubject = "\U0001F525\U0001F525\U0001F525FIRE!!\U0001F525\U0001F525\U0001F525"

	FireAlertHTML = `<p><strong> Forest Lakes Park Resident</strong></p>` +
		`<p><strong>A Fire has been reported in the area please visit the ` +
		`Forest Lakes Park Activity Tracker Website</strong> ` +
		`<a href="https://forest-lakes-map.vercel.app/">Click here to go to the website<a/></p>`
)

// FireAlert builds the notice for one recipient.
func FireAlert(to string) Message {
	return Message{
		To:      to,
		Subject: FireAlertSubject,
		HTML:    FireAlertHTML,
	}
}
