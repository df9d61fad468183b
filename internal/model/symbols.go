package model

// DefaultSymbols is the built-in universe used when SYMBOL_LIST is not set.
// NSE-listed tickers carry the .NS suffix; providers treat the suffix as
// opaque, it only matters to the exchange.
var DefaultSymbols = []SymbolSpec{
	{Symbol: "AAPL", DisplayName: "Apple Inc.", Sector: "Technology"},
	{Symbol: "MSFT", DisplayName: "Microsoft Corporation", Sector: "Technology"},
	{Symbol: "GOOGL", DisplayName: "Alphabet Inc.", Sector: "Technology"},
	{Symbol: "AMZN", DisplayName: "Amazon.com Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "TSLA", DisplayName: "Tesla Inc.", Sector: "Automotive"},
	{Symbol: "META", DisplayName: "Meta Platforms Inc.", Sector: "Technology"},
	{Symbol: "NVDA", DisplayName: "NVIDIA Corporation", Sector: "Technology"},
	{Symbol: "JPM", DisplayName: "JPMorgan Chase & Co.", Sector: "Financial Services"},
	{Symbol: "RELIANCE.NS", DisplayName: "Reliance Industries", Sector: "Energy"},
	{Symbol: "TCS.NS", DisplayName: "Tata Consultancy Services", Sector: "Technology"},
	{Symbol: "INFY.NS", DisplayName: "Infosys Limited", Sector: "Technology"},
	{Symbol: "HDFCBANK.NS", DisplayName: "HDFC Bank", Sector: "Financial Services"},
	{Symbol: "ICICIBANK.NS", DisplayName: "ICICI Bank", Sector: "Financial Services"},
	{Symbol: "WIPRO.NS", DisplayName: "Wipro Limited", Sector: "Technology"},
	{Symbol: "TATAMOTORS.NS", DisplayName: "Tata Motors", Sector: "Automotive"},
}
