package server

import "net/http"

// indexHTML is the built-in control page served when no static directory is
// configured. It mirrors web/index.html so the binary works standalone.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<title>Ushna Thermal Viewer</title>
<style>
body { background: #111; color: #eee; font-family: sans-serif; margin: 0; }
.wrap { display: flex; align-items: flex-start; padding: 16px; gap: 16px; }
.stream img { display: block; max-width: 100%; }
.controls { display: flex; flex-direction: column; gap: 8px; }
button { background: #333; color: #eee; border: 1px solid #555; padding: 8px 14px; cursor: pointer; }
button:hover { background: #444; }
</style>
</head>
<body>
<div class="wrap">
  <div class="stream"><img src="/video_feed" alt="thermal stream"></div>
  <div class="controls">
    <button onclick="cmd('m')">Cycle colormap</button>
    <button onclick="cmd('h')">Toggle HUD</button>
    <button onclick="cmd('p')">Snapshot</button>
    <button onclick="cmd('r')">Record / stop</button>
    <button onclick="cmd('f')">Contrast +</button>
    <button onclick="cmd('v')">Contrast -</button>
  </div>
</div>
<script>
function cmd(c) { fetch('/command/' + c); }
</script>
</body>
</html>
`

// handleIndex serves the built-in control page at the root path.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
