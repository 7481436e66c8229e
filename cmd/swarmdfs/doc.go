/*
swarmdfs 命令行入口，基于 cobra 组织子命令。

# 子命令

  - run       对 playbook 中的 worker 执行一个或多个初始任务（errgroup 并行），打印 trace
  - serve     启动 HTTP API（/v1/runs、/health、/ready、/version、/metrics），--watch 时热更新 playbook
  - show      按 run ID 打印已保存的 trace
  - list      列出最近保存的 run
  - version   打印构建信息

# 全局参数

  - --config/-c   YAML 配置文件，环境变量前缀 SWARMDFS_
  - --log-level   覆盖 log.level
  - --log-format  覆盖 log.format

# 中间件

serve 的处理链依次为 Recovery、RequestID、SecurityHeaders、RequestLogger、
MetricsMiddleware（metrics.enabled 时）与 OTelTracing。
*/
package main
