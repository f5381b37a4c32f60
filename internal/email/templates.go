package email

import (
	"fmt"
	"strings"
	"time"
)

// MatchDigestTemplate renders the daily digest HTML.
func MatchDigestTemplate(newNames []string) string {
	items := make([]string, 0, len(newNames))
	for _, name := range newNames {
		items = append(items, fmt.Sprintf("<li><strong>%s</strong></li>", name))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .header { background-color: #E91E63; color: white; padding: 20px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .footer { background-color: #f8f9fa; padding: 15px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💘 New singles are waiting</h1>
        </div>
        <div class="content">
            <p>These profiles joined Cupid in the last day:</p>
            <ul>
                %s
            </ul>
            <p>Open the app to see who is online right now.</p>
            <p><strong>Sent:</strong> %s</p>
        </div>
        <div class="footer">
            <p>This is an automated email from Cupid</p>
            <p>You can turn the digest off in your notification settings</p>
        </div>
    </div>
</body>
</html>
    `, strings.Join(items, "\n                "), time.Now().Format("02/01/2006 15:04"))
}
