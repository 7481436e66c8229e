// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑，
// 为 swarmdfs 提供 TracerProvider 与 MeterProvider，swarm.Run 的 span 经由此处导出。
// 当遥测功能禁用时，使用 noop 实现，不连接任何外部服务。
package telemetry
