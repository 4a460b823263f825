package challenge

// ConfigCacheSize bounds the validated-config LRU. One entry per challenge
// seen in a batch; 1024 comfortably covers concurrent active challenges.
const ConfigCacheSize = 1024

// percentComplete is the percentage at which a composite objective counts as
// fully met. Sub-objective percentages are capped here before weighting.
const percentComplete = 100.0
