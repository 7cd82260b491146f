package cache

var FormatBytes = formatBytes
