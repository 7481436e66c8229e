/*
Package testutil 提供 swarmdfs 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / CancelledContext，自动注册 Cleanup 防止泄漏
  - Trace 断言: RecordKeys / AssertRecords，以 "worker:task@depth" 比较访问顺序

# 子包

  - testutil/mocks: MockWorker，支持脚本化结果、错误注入、延迟与调用记录
  - testutil/fixtures: 预置 worker 池与示例 playbook

# 使用示例

	ctx := testutil.TestContext(t)
	s := swarm.New(fixtures.FanOutPool())
	trace, err := s.Run(ctx, "T0")
	require.NoError(t, err)
	testutil.AssertRecords(t, []string{"A:T0@0", "B:T1@1", "C:T2@1"}, trace)
*/
package testutil
