/*
Package mocks 提供可脚本化的 swarm.Worker 测试替身。

MockWorker 支持按任务设置结果、注入错误、延迟执行与记录调用顺序。
*/
package mocks
