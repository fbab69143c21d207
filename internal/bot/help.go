package bot

// techHelp is shown to senders whose handle matches a registered technician.
const techHelp = "🔧 *Technician Commands*\n" +
	"• /accept <job_id> – accept assigned job\n" +
	"• /done <job_id> – mark job as completed\n" +
	"• /issue <job_id> [description] – report issue with job\n" +
	"• /status <job_id> – check job status\n" +
	"• /tz <Area/City> – set your timezone\n" +
	"\n💡 Reply with any message for this help menu."

// generalHelp is the default reply when nothing else matched.
const generalHelp = "🛠 *Repair Service Bot*\n" +
	"Commands:\n" +
	"• /tz <Area/City> – set your timezone (default Asia/Dubai)\n" +
	"• /price <model> – show price (e.g., /price 14pro)\n" +
	"• /setprice <model> <price> +<cable> – set price (e.g., /setprice 14pro 170 +10)\n" +
	"• /assign <job_id> <techname> – assign job & auto-notify tech\n" +
	"• /accept <job_id> – accept assigned job\n" +
	"• /done <job_id> – mark job as completed\n" +
	"• /issue <job_id> [description] – report issue with job\n" +
	"• /total <job_id> – calculate total (unit×qty + labor)\n" +
	"• /dispatch <job_id> [note] – request courier (stub)\n" +
	"\nTip: Send a *photo first* to start intake."
