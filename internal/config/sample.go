package config

// SampleConfig returns a commented starter config file.
func SampleConfig() string {
	return `# tickertop configuration file
# A top-like terminal dashboard for stock and crypto prices.

[general]
# Refresh interval in seconds
refresh_interval = 5.0
# API timeout in seconds
timeout = 10
# Default currency for display
currency = "USD"
# Maximum parallel quote fetches
max_concurrency = 12

[watchlist]
# Symbols to track
symbols = [
    "AAPL",
    "GOOGL",
    "MSFT",
    "AMZN",
    "NVDA",
    "BTC-USD",
    "ETH-USD",
]

# Portfolio holdings (optional)
[[holdings]]
symbol = "AAPL"
quantity = 10
cost_basis = 150.00

[[holdings]]
symbol = "BTC-USD"
quantity = 0.5
cost_basis = 30000.00

[display]
# Show summary header
show_header = true
# Show fundamental data (open, high, low)
show_fundamentals = false
# Show portfolio holdings
show_holdings = false
# Show separators between groups
show_separators = true
# Default sort field: symbol, name, price, change, change_percent, volume, market_cap
sort_by = "change_percent"
# Sort in descending order
sort_descending = true

[colors]
# Colors in hex format
gain = "#00ff00"
loss = "#ff0000"
neutral = "#ffffff"
header = "#1e90ff"
border = "#444444"

# Symbol groups (for organizing watchlists)
[groups]
tech = ["AAPL", "GOOGL", "MSFT", "NVDA"]
crypto = ["BTC-USD", "ETH-USD", "SOL-USD"]

# Price alerts (optional); condition is "above", "below", or "equal"
[[alerts]]
symbol = "AAPL"
condition = "above"
price = 200.00

[server]
# HTTP API settings for the serve subcommand
host = "127.0.0.1"
port = 8080
cors_origins = ["http://localhost:3000"]

[logging]
# Level: debug, info, warn, error. Format: console or json.
level = "info"
format = "console"
`
}
