package monitor

import (
	"net/http"
)

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uiHTML))
}

const uiHTML = `<!doctype html>
<html data-theme="dark">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>trading monitor</title>
  <style>
    :root[data-theme="dark"] {
      --bg: #0b1020; --panel: #141a2e; --text: #d6e2ff; --muted: #7a87a8;
      --border: #273252; --pos: #2fbf71; --neg: #e4574c; --accent: #4d9fff;
    }
    :root[data-theme="light"] {
      --bg: #f7f8fa; --panel: #ffffff; --text: #1c2333; --muted: #697086;
      --border: #dde2ec; --pos: #1d8a4e; --neg: #c0362c; --accent: #1a6fd4;
    }
    body { font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Arial;
           margin: 0; background: var(--bg); color: var(--text); }
    .wrap { max-width: 1100px; margin: 0 auto; padding: 16px; }
    .row { display:flex; gap: 8px; align-items:center; flex-wrap: wrap; }
    .panel { background: var(--panel); border: 1px solid var(--border); border-radius: 8px;
             padding: 12px; margin-bottom: 12px; }
    .muted { color: var(--muted); font-size: 12px; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid var(--border); }
    th { color: var(--muted); font-weight: 600; }
    td.num { text-align: right; font-variant-numeric: tabular-nums; }
    .badge { padding: 2px 10px; border-radius: 12px; font-weight: 700; font-size: 13px; }
    .badge.running { background: var(--pos); color: #fff; }
    .badge.stopped { background: var(--neg); color: #fff; }
    .positive { color: var(--pos); }
    .negative { color: var(--neg); }
    button { background: var(--panel); color: var(--text); border: 1px solid var(--border);
             border-radius: 6px; padding: 6px 12px; cursor: pointer; }
    button:hover { border-color: var(--accent); }
    select { background: var(--panel); color: var(--text); border: 1px solid var(--border);
             border-radius: 6px; padding: 5px 8px; }
    a { color: var(--accent); }
    canvas { width: 100%; height: 180px; }
  </style>
</head>
<body>
<div class="wrap">
  <div class="panel row">
    <h3 style="margin:0">Trading Monitor</h3>
    <span id="status" class="badge stopped">—</span>
    <span id="override" class="muted"></span>
    <button onclick="doControl('pause')">暂停</button>
    <button onclick="doControl('resume')">恢复</button>
    <button onclick="loadData()">刷新</button>
    <select id="tz" onchange="onTzChange()"></select>
    <button onclick="toggleTheme()">明/暗</button>
    <a id="csv" href="/export/trades.csv">导出 CSV</a>
    <span id="updated" class="muted"></span>
  </div>

  <div class="panel">
    <h4 style="margin-top:0">Equity</h4>
    <canvas id="chart" width="1060" height="180"></canvas>
    <div id="chartEmpty" class="muted" style="display:none">暂无净值数据</div>
  </div>

  <div class="panel">
    <h4 style="margin-top:0">Trades</h4>
    <table>
      <thead>
        <tr><th>Time</th><th>Symbol</th><th>Side</th><th>Type</th>
            <th style="text-align:right">Price</th><th style="text-align:right">Qty</th>
            <th style="text-align:right">PnL</th></tr>
      </thead>
      <tbody id="trades"></tbody>
    </table>
  </div>

  <div class="panel muted" id="backend"></div>
</div>

<script>
const TIMEZONES = ["UTC","Asia/Jerusalem","America/New_York","Europe/London","Asia/Shanghai"];
const DASH = "—";
let pollTimer = null;
let inFlight = false;

function selectedTz() {
  return localStorage.getItem("monitor.tz") || "UTC";
}

function initTz() {
  const sel = document.getElementById("tz");
  for (const tz of TIMEZONES) {
    const opt = document.createElement("option");
    opt.value = tz; opt.textContent = tz;
    sel.appendChild(opt);
  }
  sel.value = selectedTz();
}

function onTzChange() {
  localStorage.setItem("monitor.tz", document.getElementById("tz").value);
  loadData();
}

function initTheme() {
  const saved = localStorage.getItem("monitor.theme");
  if (saved === "dark" || saved === "light") {
    document.documentElement.setAttribute("data-theme", saved);
  }
}

function toggleTheme() {
  const cur = document.documentElement.getAttribute("data-theme") === "light" ? "dark" : "light";
  document.documentElement.setAttribute("data-theme", cur);
  localStorage.setItem("monitor.theme", cur);
  paintChart(lastEquity);
}

// toTzString 把后端时间串格式化到选定时区，固定 "YYYY-MM-DD HH:mm:ss"。
// 解析失败时原样返回输入。
function toTzString(raw) {
  if (!raw) return "";
  const d = new Date(raw);
  if (isNaN(d.getTime())) return raw;
  try {
    const parts = new Intl.DateTimeFormat("en-CA", {
      timeZone: selectedTz(), hour12: false,
      year: "numeric", month: "2-digit", day: "2-digit",
      hour: "2-digit", minute: "2-digit", second: "2-digit",
    }).formatToParts(d);
    const p = {};
    for (const x of parts) p[x.type] = x.value;
    return p.year + "-" + p.month + "-" + p.day + " " + p.hour + ":" + p.minute + ":" + p.second;
  } catch (e) {
    return raw;
  }
}

function tradeTime(t) {
  return t.time || t.timestamp || t.ts || t.datetime || t.date || "";
}

function sideClass(side) {
  const s = (side || "").trim().toUpperCase();
  if (s === "BUY" || s === "LONG") return "positive";
  if (s === "SELL" || s === "SHORT") return "negative";
  return "";
}

function numVal(v) {
  if (v === null || v === undefined || v === "") return null;
  const n = Number(v);
  return isNaN(n) ? null : n;
}

function cell(v) {
  const n = numVal(v);
  return n === null ? DASH : n.toFixed(2);
}

function paintStatus(snap) {
  const el = document.getElementById("status");
  const status = snap.status || "";
  if (status === "RUNNING") {
    el.className = "badge running";
  } else {
    el.className = "badge stopped";
  }
  el.textContent = status || DASH;
  document.getElementById("override").textContent =
    snap.manual_override ? "[manual override]" : "";
}

function renderTrades(trades) {
  const body = document.getElementById("trades");
  body.innerHTML = "";
  if (!trades || trades.length === 0) {
    const tr = document.createElement("tr");
    const td = document.createElement("td");
    td.colSpan = 7; td.className = "muted"; td.textContent = "暂无成交";
    tr.appendChild(td); body.appendChild(tr);
    return;
  }
  for (const t of trades) {
    const tr = document.createElement("tr");
    const cells = [
      [toTzString(tradeTime(t)) || DASH, ""],
      [t.symbol || DASH, ""],
      [t.side || DASH, sideClass(t.side)],
      [t.type || DASH, ""],
      [cell(t.price), "num"],
      [cell(t.qty), "num"],
      [cell(t.pnl), "num " + pnlClass(t.pnl)],
    ];
    for (const [text, cls] of cells) {
      const td = document.createElement("td");
      td.textContent = text;
      if (cls.trim()) td.className = cls.trim();
      tr.appendChild(td);
    }
    body.appendChild(tr);
  }
}

function pnlClass(v) {
  const n = numVal(v);
  if (n === null) return "";
  return n < 0 ? "negative" : "positive";
}

let lastEquity = [];
function paintChart(points) {
  lastEquity = points || [];
  const canvas = document.getElementById("chart");
  const empty = document.getElementById("chartEmpty");
  const ctx = canvas.getContext("2d");
  ctx.clearRect(0, 0, canvas.width, canvas.height);

  const values = lastEquity.map(p => numVal(p.y)).filter(v => v !== null);
  if (values.length === 0) {
    canvas.style.display = "none";
    empty.style.display = "block";
    return;
  }
  canvas.style.display = "block";
  empty.style.display = "none";

  const min = Math.min(...values), max = Math.max(...values);
  const span = max - min || 1;
  const w = canvas.width, h = canvas.height, pad = 8;

  const style = getComputedStyle(document.documentElement);
  ctx.strokeStyle = style.getPropertyValue("--accent").trim() || "#4d9fff";
  ctx.lineWidth = 2;
  ctx.beginPath();
  values.forEach((v, i) => {
    const x = pad + (w - 2 * pad) * (values.length === 1 ? 0.5 : i / (values.length - 1));
    const y = h - pad - (h - 2 * pad) * ((v - min) / span);
    if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
  });
  ctx.stroke();
}

async function loadData() {
  if (inFlight) return; // 上一轮还没回来，跳过
  inFlight = true;
  try {
    const resp = await fetch("/data" + location.search);
    if (!resp.ok) throw new Error("http " + resp.status);
    const snap = await resp.json();
    paintStatus(snap);
    renderTrades(snap.trades);
    paintChart(snap.equity);
    const now = new Date();
    document.getElementById("updated").textContent =
      "updated: " + toTzString(now.toISOString()) +
      (snap.now_utc ? "  server utc: " + snap.now_utc : "");
    loadHealth();
  } catch (e) {
    document.getElementById("updated").textContent = "fetch failed: " + e.message;
  } finally {
    inFlight = false;
  }
}

// health 拿不到就算了，不影响主面板
async function loadHealth() {
  try {
    const resp = await fetch("/health");
    if (!resp.ok) return;
    const h = await resp.json();
    document.getElementById("backend").textContent =
      "logs: " + (h.log_dir || DASH) + "  db: " + (h.db_path || DASH) +
      "  uptime: " + (h.uptime || DASH);
  } catch (e) { /* 忽略 */ }
}

async function doControl(action) {
  try {
    const resp = await fetch("/" + action, { method: "POST" });
    if (!resp.ok) throw new Error("http " + resp.status);
  } catch (e) {
    document.getElementById("updated").textContent = action + " failed: " + e.message;
  }
  loadData();
}

function initCsvLink() {
  const a = document.getElementById("csv");
  a.href = "/export/trades.csv" + location.search;
}

initTheme();
initTz();
initCsvLink();
loadData();
pollTimer = setInterval(loadData, 10000);
</script>
</body>
</html>
`
