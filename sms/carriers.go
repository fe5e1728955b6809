// path: sms/carriers.go
package sms

import "sort"

// carriers maps a carrier key to its email-to-SMS gateway address templates.
// %s is the stripped phone number.
var carriers = map[string][]string{
	"att":          {"%s@txt.att.net"},
	"boost":        {"%s@sms.myboostmobile.com"},
	"cricket":      {"%s@sms.cricketwireless.net"},
	"googlefi":     {"%s@msg.fi.google.com"},
	"metropcs":     {"%s@mymetropcs.com"},
	"republic":     {"%s@text.republicwireless.com"},
	"sprint":       {"%s@messaging.sprintpcs.com"},
	"straighttalk": {"%s@vtext.com"},
	"ting":         {"%s@message.ting.com"},
	"tmobile":      {"%s@tmomail.net"},
	"tracfone":     {"%s@mmst5.tracfone.com"},
	"uscellular":   {"%s@email.uscc.net"},
	"verizon":      {"%s@vtext.com"},
	"virgin":       {"%s@vmobl.com"},
}

// providers lists the gateways tried per region when no carrier is given.
var providers = map[string][]string{
	"us": {
		"%s@txt.att.net",
		"%s@tmomail.net",
		"%s@vtext.com",
		"%s@messaging.sprintpcs.com",
		"%s@sms.cricketwireless.net",
		"%s@sms.myboostmobile.com",
	},
}

// Carriers returns the supported carrier keys, sorted.
func Carriers() []string {
	keys := make([]string, 0, len(carriers))
	for k := range carriers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
