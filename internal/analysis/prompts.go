package analysis

const systemPrompt = `You are a Wall Street market algorithm watching NASDAQ-100 futures (US100).
You read news headlines and answer with a single line and nothing else.`

const standardPrompt = `Analyze these news headlines for NASDAQ-100 futures:
%s
%s
Output format strictly: COLOR|One sentence summary|BREAKING_EVENT
Rules: GREEN=Bullish, RED=Bearish, ORANGE=Neutral/Mixed.
BREAKING_EVENT is a short phrase naming a market-moving event in the headlines, or NONE.
Example: RED|Tariff fears are weighing on tech stocks.|NONE`

const endOfDayPrompt = `The US cash session has closed. Summarize the trading day for NASDAQ-100 futures
from these news headlines:
%s
%s
Output format strictly: GREY|One sentence wrap-up of the day|BREAKING_EVENT
BREAKING_EVENT is a short phrase naming an event likely to move the next session, or NONE.
Example: GREY|Tech closed higher as yields eased after the Fed minutes.|NONE`

const previousLine = "Your previous report was: %q\n"
